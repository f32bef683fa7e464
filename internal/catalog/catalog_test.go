package catalog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbeddedCatalog(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)
	require.Equal(t, 6, c.Len())

	ids := make([]string, 0, c.Len())
	for _, rec := range c.All() {
		ids = append(ids, rec.ID)
	}
	assert.Equal(t, []string{
		"mazda-brand-meaning-lvl2-2025",
		"mazda-gfv-q3-2025",
		"mazdacare-warranty-2025",
		"south32-community-2024",
		"initium-b2b-acceleration-2025",
		"sasol-green-future-2024",
	}, ids)
}

func TestEmbeddedCatalogIntegrity(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	seen := make(map[string]bool)
	for _, rec := range c.All() {
		assert.False(t, seen[rec.ID], "duplicate id %s", rec.ID)
		seen[rec.ID] = true

		assert.NotNil(t, rec.Channels, rec.ID)
		assert.NotNil(t, rec.Tech, rec.ID)
		assert.NotEmpty(t, rec.Title, rec.ID)
		assert.NotEmpty(t, rec.Summary, rec.ID)
		for _, a := range rec.Assets {
			assert.NotEmpty(t, a.Src, rec.ID)
		}
	}
}

func TestLookup(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	rec, ok := c.Lookup("mazda-gfv-q3-2025")
	require.True(t, ok)
	assert.Equal(t, "Mazda2 Retail Promotion Campaign", rec.Title)
	assert.Equal(t, EmployerMazda, rec.Employer)
	assert.Equal(t, "2025 Q3", rec.Period)
	assert.Equal(t, KPI{Label: "ROAS", Value: "4.2:1"}, rec.KPIs[0])

	_, ok = c.Lookup("unknown-id")
	assert.False(t, ok)

	_, err = c.Get("unknown-id")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestAllReturnsCopy(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	all := c.All()
	require.NotEmpty(t, all[0].Channels)
	require.NotEmpty(t, all[0].Assets)
	require.NotEmpty(t, all[0].Responsibilities)
	id := all[0].ID
	channel := all[0].Channels[0]
	src := all[0].Assets[0].Src

	all[0].Title = "changed"
	all[0].Channels[0] = "Hacked"
	all[0].Assets[0].Src = "/hacked.jpg"
	all[0].Responsibilities[0] = "hacked"

	rec, ok := c.Lookup(id)
	require.True(t, ok)
	assert.NotEqual(t, "changed", rec.Title)
	assert.Equal(t, channel, rec.Channels[0])
	assert.Equal(t, src, rec.Assets[0].Src)
	assert.NotEqual(t, "hacked", rec.Responsibilities[0])
}

func TestLookupAndFilterReturnCopies(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)
	id := c.All()[0].ID

	rec, ok := c.Lookup(id)
	require.True(t, ok)
	want := rec.Channels[0]
	rec.Channels[0] = "Hacked"

	filtered := c.Filter(nil, nil)
	require.NotEmpty(t, filtered)
	assert.Equal(t, want, filtered[0].Channels[0])
	filtered[0].Channels[0] = "Hacked"

	again, ok := c.Lookup(id)
	require.True(t, ok)
	assert.Equal(t, want, again.Channels[0])
}

func TestNewCopiesInput(t *testing.T) {
	records := []ProjectRecord{{
		ID:       "a",
		Title:    "A",
		Employer: EmployerOther,
		Channels: []Channel{ChannelWeb},
		Assets:   []Asset{{Kind: AssetImage, Src: "/a.jpg"}},
	}}
	c, err := New(records)
	require.NoError(t, err)

	records[0].Channels[0] = ChannelMeta

	rec, ok := c.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, ChannelWeb, rec.Channels[0])
}

func TestNewRejectsDefects(t *testing.T) {
	base := func() ProjectRecord {
		return ProjectRecord{
			ID:       "a",
			Title:    "A",
			Employer: EmployerOther,
			Channels: []Channel{ChannelWeb},
			Assets:   []Asset{{Kind: AssetImage, Src: "/a.jpg"}},
		}
	}

	tests := []struct {
		name    string
		records func() []ProjectRecord
	}{
		{"duplicate id", func() []ProjectRecord { return []ProjectRecord{base(), base()} }},
		{"empty id", func() []ProjectRecord { r := base(); r.ID = " "; return []ProjectRecord{r} }},
		{"empty asset src", func() []ProjectRecord {
			r := base()
			r.Assets[0].Src = ""
			return []ProjectRecord{r}
		}},
		{"unknown asset kind", func() []ProjectRecord {
			r := base()
			r.Assets[0].Kind = "audio"
			return []ProjectRecord{r}
		}},
		{"unknown channel", func() []ProjectRecord {
			r := base()
			r.Channels = []Channel{"Carrier Pigeon"}
			return []ProjectRecord{r}
		}},
		{"unknown employer", func() []ProjectRecord {
			r := base()
			r.Employer = "Acme"
			return []ProjectRecord{r}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.records())
			assert.Error(t, err)
		})
	}
}

func TestNewNormalizesNilLists(t *testing.T) {
	c, err := New([]ProjectRecord{{ID: "x", Employer: EmployerOther}})
	require.NoError(t, err)

	rec, ok := c.Lookup("x")
	require.True(t, ok)
	assert.NotNil(t, rec.Channels)
	assert.NotNil(t, rec.Tech)
	assert.Empty(t, rec.Channels)
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	_, err := Parse([]byte("- id: [unterminated"))
	assert.Error(t, err)
}

func TestFilter(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	idsOf := func(recs []ProjectRecord) []string {
		out := make([]string, 0, len(recs))
		for _, r := range recs {
			out = append(out, r.ID)
		}
		return out
	}

	assert.Len(t, c.Filter(nil, nil), 6)

	assert.Equal(t, []string{
		"mazda-brand-meaning-lvl2-2025",
		"mazda-gfv-q3-2025",
		"mazdacare-warranty-2025",
	}, idsOf(c.Filter([]Employer{EmployerMazda}, nil)))

	assert.Equal(t, []string{
		"south32-community-2024",
		"initium-b2b-acceleration-2025",
	}, idsOf(c.Filter(nil, []Channel{ChannelLinkedIn})))

	assert.Equal(t, []string{"mazdacare-warranty-2025"},
		idsOf(c.Filter([]Employer{EmployerMazda}, []Channel{ChannelTikTok})))

	assert.Empty(t, c.Filter([]Employer{EmployerEmpangeni}, nil))
}

func TestEmployersAndChannels(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []Employer{EmployerMazda, EmployerSouth32, EmployerInitium, EmployerSasol}, c.Employers())

	channels := c.Channels()
	assert.Equal(t, ChannelMeta, channels[0])
	assert.Contains(t, channels, ChannelPublicRelations)
}
