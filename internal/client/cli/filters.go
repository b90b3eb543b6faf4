package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iudanet/cfhelper/internal/models"
	"github.com/iudanet/cfhelper/internal/query"
	"github.com/iudanet/cfhelper/internal/query/expr"
	"github.com/iudanet/cfhelper/internal/validation"
)

// filterOptions флаги фильтрации, общие для списков, статистики и random
type filterOptions struct {
	division   string
	position   string
	minRating  int
	maxRating  int
	tags       []string
	search     string
	where      string
	sortKey    string
	desc       bool
	hideSolved bool

	// заполняются из cmd.Flags().Changed
	hasMin bool
	hasMax bool
}

func bindFilterFlags(cmd *cobra.Command, o *filterOptions) {
	f := cmd.Flags()
	f.StringVarP(&o.division, "division", "d", "", "contest division (Div1, Div2, Div3, Div4, Mixed)")
	f.StringVarP(&o.position, "position", "p", "", "problem letter or full index, e.g. C or C1")
	f.IntVar(&o.minRating, "min-rating", 0, "minimum rating, inclusive")
	f.IntVar(&o.maxRating, "max-rating", 0, "maximum rating, inclusive")
	f.StringArrayVarP(&o.tags, "tag", "t", nil, "required tag, repeatable")
	f.StringVarP(&o.search, "search", "s", "", "substring of the name or a tag")
	f.StringVarP(&o.where, "where", "w", "", `CEL condition, e.g. 'rating >= 1600 && "dp" in tags'`)
	f.StringVar(&o.sortKey, "sort", "", "sort by rating, name, contest or position")
	f.BoolVar(&o.desc, "desc", false, "sort descending")
	f.BoolVar(&o.hideSolved, "hide-solved", false, "hide problems marked solved")
}

// resolve читает флаги, которые нужно отличать от нулевого значения
func (o *filterOptions) resolve(cmd *cobra.Command) {
	o.hasMin = cmd.Flags().Changed("min-rating")
	o.hasMax = cmd.Flags().Changed("max-rating")
}

// spec builds the filter from flags
func (o *filterOptions) spec() (query.FilterSpec, error) {
	var spec query.FilterSpec

	if o.division != "" {
		division, err := parseDivision(o.division)
		if err != nil {
			return spec, err
		}
		spec.Division = division
	}
	spec.Position = strings.TrimSpace(o.position)

	if o.hasMin {
		v := o.minRating
		spec.MinRating = &v
	}
	if o.hasMax {
		v := o.maxRating
		spec.MaxRating = &v
	}
	if err := validation.ValidateRatingBounds(spec.MinRating, spec.MaxRating); err != nil {
		return spec, err
	}

	spec.Tags = o.tags
	spec.Search = o.search

	if err := expr.Apply(&spec, o.where); err != nil {
		return spec, err
	}
	return spec, nil
}

func (o *filterOptions) sort() (query.SortSpec, error) {
	key, err := query.ParseSortKey(o.sortKey)
	if err != nil {
		return query.SortSpec{}, err
	}
	order := query.Asc
	if o.desc {
		order = query.Desc
	}
	return query.SortSpec{Key: key, Order: order}, nil
}

// parseDivision без учета регистра, допускает "div2" и "2"
func parseDivision(s string) (models.Division, error) {
	s = strings.TrimSpace(s)
	for _, d := range models.Divisions() {
		name := string(d)
		if strings.EqualFold(s, name) || strings.EqualFold("div"+s, name) {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown division %q, use one of %s", s, joinDivisions())
}

func joinDivisions() string {
	names := make([]string, 0, len(models.Divisions()))
	for _, d := range models.Divisions() {
		names = append(names, string(d))
	}
	return strings.Join(names, ", ")
}
