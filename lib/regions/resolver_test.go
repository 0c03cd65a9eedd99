package regions

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func testReferences() []Reference {
	return []Reference{
		{Key: "altayskiy", Name: "Алтайский край"},
		{Key: "primorskiy", Name: "Приморский край"},
		{Key: "moskovskaya", Name: "Московская область"},
		{Key: "tatarstan", Name: "Республика Татарстан (Татарстан)"},
		{Key: "tverskaya", Name: "Тверская область"},
	}
}

func TestLoadReference(t *testing.T) {
	csv := "key,name,federal_district,population,notes\n" +
		"altayskiy,Алтайский край,Сибирский,2160000,\n" +
		"primorskiy,Приморский край,Дальневосточный,1840000,порт, рыба\n" +
		"\n" +
		"broken-line-without-name\n"
	path := filepath.Join(t.TempDir(), "regions.csv")
	err := os.WriteFile(path, []byte(csv), 0644)
	require.NoError(t, err)

	refs, err := LoadReference(path)
	require.NoError(t, err)
	require.Equal(t, []Reference{
		{Key: "altayskiy", Name: "Алтайский край"},
		{Key: "primorskiy", Name: "Приморский край"},
	}, refs)
}

func TestResolveExactness(t *testing.T) {
	refs := testReferences()
	resolver := NewResolver(refs)

	for _, ref := range refs {
		res := resolver.Resolve(ref.Name)
		require.Equal(t, KindKey, res.Kind, ref.Name)
		require.Equal(t, ref.Key, res.Key, ref.Name)
	}
}

func TestResolveSkip(t *testing.T) {
	resolver := NewResolver(testReferences())

	skipped := []string{
		"Российская Федерация",
		"россия",
		"Сумма",
		"город Байконур",
		"Территория за пределами РФ",
		"Усть-Ордынский Бурятский автономный округ",
		// substring containment is enough
		"Голосование за рубежом (всего)",
	}
	for _, name := range skipped {
		res := resolver.Resolve(name)
		require.Equal(t, KindSkip, res.Kind, name)
		require.Empty(t, res.Key, name)
	}
}

func TestResolveOverrides(t *testing.T) {
	resolver := NewResolver(testReferences())

	testCases := []struct {
		raw string
		key string
	}{
		{"г. Москва", "moskva"},
		{"Москва", "moskva"},
		{"Ленинград", "spb"},
		{"Читинская область", "zabaykalskiy"},
		{"Чечено-Ингушетия", "chechenskaya"},
		{"Кемеровская область - Кузбасс", "kemerovskaya"},
	}
	for _, test := range testCases {
		res := resolver.Resolve(test.raw)
		require.Equal(t, KindKey, res.Kind, test.raw)
		require.Equal(t, test.key, res.Key, test.raw)
	}
}

func TestResolveNormalized(t *testing.T) {
	resolver := NewResolver(testReferences())

	// parenthetical qualifier stripped
	res := resolver.Resolve("Республика Татарстан")
	require.Equal(t, KindKey, res.Kind)
	require.Equal(t, "tatarstan", res.Key)

	// trailing dash-separated suffix stripped
	res = resolver.Resolve("Тверская область — Тверь")
	require.Equal(t, KindKey, res.Kind)
	require.Equal(t, "tverskaya", res.Key)
}

func TestResolveFuzzy(t *testing.T) {
	resolver := NewResolver(testReferences())

	// normalized raw is a substring of a longer canonical name
	res := resolver.Resolve("Приморский")
	require.Equal(t, KindKey, res.Kind)
	require.Equal(t, "primorskiy", res.Key)
}

func TestResolveUnknown(t *testing.T) {
	resolver := NewResolver(testReferences())

	for _, name := range []string{"Нарния", "xyz", ""} {
		res := resolver.Resolve(name)
		require.Equal(t, KindNone, res.Kind, name)
	}
}

func TestSuggest(t *testing.T) {
	resolver := NewResolver(testReferences())

	name, similarity := resolver.Suggest("Приморски край")
	require.Equal(t, "Приморский край", name)
	require.Greater(t, similarity, 0.8)
}
