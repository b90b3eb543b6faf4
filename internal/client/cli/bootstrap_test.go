package cli

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/cfhelper/internal/client/iocli"
	"github.com/iudanet/cfhelper/internal/config"
)

const problemsetBody = `{"status":"OK","result":{"problems":[
	{"contestId":1850,"index":"A","name":"To My Critics","rating":800,"tags":["implementation"]},
	{"contestId":1903,"index":"C","name":"Theofanis Nightmare","rating":1400,"tags":["greedy","dp"]}
],"problemStatistics":[]}}`

func TestOpenStorage(t *testing.T) {
	for _, engine := range []string{config.StoreBolt, config.StoreSQLite} {
		t.Run(engine, func(t *testing.T) {
			cfg := &config.Config{
				Store:  engine,
				DBPath: filepath.Join(t.TempDir(), "nested", "dir", "cfhelper.db"),
			}
			s, err := OpenStorage(context.Background(), cfg)
			require.NoError(t, err)
			require.NoError(t, s.Close())
		})
	}

	_, err := OpenStorage(context.Background(), &config.Config{Store: "redis", DBPath: filepath.Join(t.TempDir(), "x.db")})
	assert.ErrorIs(t, err, config.ErrInvalidStore)
}

// TestOpenFactory_EndToEnd прогоняет команды через настоящие хранилище и HTTP клиент
func TestOpenFactory_EndToEnd(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var calls atomic.Int32
	var down atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/problemset.problems", r.URL.Path)
		if down.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(problemsetBody))
	}))
	defer server.Close()

	for _, engine := range []string{config.StoreBolt, config.StoreSQLite} {
		t.Run(engine, func(t *testing.T) {
			calls.Store(0)
			down.Store(false)
			cfg, err := config.LoadFrom(map[string]string{
				"CFHELPER_API_URL":    server.URL,
				"CFHELPER_DB":         filepath.Join(t.TempDir(), "cfhelper.db"),
				"CFHELPER_STORE":      engine,
				"CFHELPER_RATE_LIMIT": "0",
				"CFHELPER_LOG_LEVEL":  "error",
			})
			require.NoError(t, err)

			var logs bytes.Buffer
			run := func(args ...string) string {
				var out bytes.Buffer
				err := Execute(context.Background(), cfg, iocli.NewStream(strings.NewReader(""), &out),
					OpenFactory(&logs), VersionInfo{}, args)
				require.NoError(t, err, out.String())
				return out.String()
			}

			out := run("fav", "1903-C")
			assert.Contains(t, out, "Added 1903-C")

			out = run("favorites")
			assert.Contains(t, out, "Theofanis Nightmare")
			assert.Equal(t, int32(1), calls.Load())

			// новый процесс: кэш в памяти пуст, каталог снова берется из архива
			out = run("problems", "--tag", "implementation")
			assert.Contains(t, out, "1850-A")
			assert.NotContains(t, out, "1903-C")
			assert.Equal(t, int32(2), calls.Load())

			// архив недоступен: каталог берется из резервной копии
			down.Store(true)

			out = run("refresh")
			assert.Contains(t, out, "Catalog loaded: 2 problems from backup")
			assert.Contains(t, out, "showing the backup copy")
		})
	}
}
