package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func cats(names ...string) Catalog {
	c := make(Catalog, 0, len(names))
	for _, n := range names {
		c = append(c, Category{Name: n, HandlerType: HandlerCompSci})
	}
	return c
}

func TestSuggest(t *testing.T) {
	full := Default()

	tests := []struct {
		name        string
		description string
		catalog     Catalog
		want        string
		wantOK      bool
	}{
		{
			name:        "java keyword hits java category",
			description: "Need help finishing my Java homework",
			catalog:     cats("Programming - Java", "Essay Writing"),
			want:        "Programming - Java",
			wantOK:      true,
		},
		{
			name:        "java keyword without catalog entry",
			description: "Need help finishing my Java homework",
			catalog:     cats("Essay Writing"),
		},
		{
			name:        "falls back to second candidate",
			description: "Need help finishing my Java homework",
			catalog:     cats("Programming"),
			want:        "Programming",
			wantOK:      true,
		},
		{
			name:        "too short",
			description: "java stuff",
			catalog:     full,
		},
		{
			name:        "just over threshold",
			description: "java stuff!",
			catalog:     full,
			want:        "Programming - Java",
			wantOK:      true,
		},
		{
			name:        "longer keyword wins",
			description: "a small javascript project for class",
			catalog:     full,
			want:        "Web Development",
			wantOK:      true,
		},
		{
			name:        "tie keeps earlier rule",
			description: "react component plus an essay on it",
			catalog:     full,
			want:        "Web Development",
			wantOK:      true,
		},
		{
			name:        "report beats essay",
			description: "an essay shaped lab report",
			catalog:     full,
			want:        "Report Writing",
			wantOK:      true,
		},
		{
			name:        "catalog spelling returned",
			description: "python data cleaning script",
			catalog:     cats("PROGRAMMING - PYTHON"),
			want:        "PROGRAMMING - PYTHON",
			wantOK:      true,
		},
		{
			name:        "substring quirk on ai",
			description: "please email me the answers",
			catalog:     cats("Machine Learning"),
			want:        "Machine Learning",
			wantOK:      true,
		},
		{
			name:        "multi word keyword",
			description: "Homework on fluid dynamics of pipes",
			catalog:     full,
			want:        "Engineering - Mechanical",
			wantOK:      true,
		},
		{
			name:        "no keyword",
			description: "something entirely unrelated here",
			catalog:     full,
		},
		{
			name:        "empty catalog",
			description: "Need help finishing my Java homework",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Suggest(tt.description, tt.catalog)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSuggest_SameCategoryFromManyKeywordsUsesMaxOnly(t *testing.T) {
	c := cats("Database Management", "Networking")
	// "database"(8) and "sql"(3) both point at Database Management;
	// "network"(7) must still lose to the single longest keyword.
	got, ok := Suggest("sql database over a network", c)
	assert.True(t, ok)
	assert.Equal(t, "Database Management", got)
}
