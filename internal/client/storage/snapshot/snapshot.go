// Package snapshot encodes the durable catalog backup.
//
// A snapshot is the JSON document {"problems": [...], "timestamp": ...}
// compressed with zstd. Plain JSON snapshots are still accepted on decode.
package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/iudanet/cfhelper/internal/models"
)

// ErrCorrupt означает, что снимок не удалось разобрать
var ErrCorrupt = errors.New("corrupt catalog snapshot")

// zstdMagic первые байты любого zstd фрейма
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// Encode serializes the catalog and compresses it.
func Encode(catalog *models.CachedCatalog) ([]byte, error) {
	if catalog == nil {
		return nil, errors.New("nil catalog")
	}

	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd writer: %w", err)
	}

	if err := json.NewEncoder(enc).Encode(catalog); err != nil {
		_ = enc.Close()
		return nil, fmt.Errorf("failed to encode catalog: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to flush zstd writer: %w", err)
	}

	return buf.Bytes(), nil
}

// Decode restores a catalog written by Encode (or a plain JSON snapshot).
func Decode(data []byte) (*models.CachedCatalog, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrCorrupt)
	}

	var r io.Reader = bytes.NewReader(data)
	if bytes.HasPrefix(data, zstdMagic) {
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		defer dec.Close()
		r = dec
	}

	var catalog models.CachedCatalog
	if err := json.NewDecoder(r).Decode(&catalog); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if catalog.Problems == nil {
		catalog.Problems = []models.Problem{}
	}

	return &catalog, nil
}
