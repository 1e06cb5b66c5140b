// SPDX-License-Identifier: Apache-2.0

package searchindex

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestCompile_Mappings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		declare func(b *Builder)

		wantJSON string
	}{
		{
			name: "dynamic root only",
			declare: func(b *Builder) {
				b.IsDynamic()
			},
			wantJSON: `{"mappings":{"dynamic":true,"fields":{}}}`,
		},
		{
			name: "boolean field under static root",
			declare: func(b *Builder) {
				b.IndexAsBoolean("Current")
			},
			wantJSON: `{"mappings":{"dynamic":false,"fields":{"Current":{"type":"boolean"}}}}`,
		},
		{
			name: "stored source includes sorted alphabetically",
			declare: func(b *Builder) {
				b.StoreSourceFor("Name")
				b.StoreSourceFor("Breed")
			},
			wantJSON: `{"mappings":{"dynamic":false,"fields":{}},"storedSource":{"include":["Breed","Name"]}}`,
		},
		{
			name: "stored source excludes",
			declare: func(b *Builder) {
				b.OmitSourceFor("Tags")
				b.OmitSourceFor("Age")
			},
			wantJSON: `{"mappings":{"dynamic":false,"fields":{}},"storedSource":{"exclude":["Age","Tags"]}}`,
		},
		{
			name: "store all source",
			declare: func(b *Builder) {
				b.IsDynamic()
				b.StoreAllSource()
			},
			wantJSON: `{"mappings":{"dynamic":true,"fields":{}},"storedSource":true}`,
		},
		{
			name: "multi-typed field keeps declaration order",
			declare: func(b *Builder) {
				b.Field("Name", &StringField{})
				b.Field("Name", &TokenField{})
			},
			wantJSON: `{"mappings":{"dynamic":false,"fields":{"Name":[{"type":"string"},{"type":"token"}]}}}`,
		},
		{
			name: "excluded leaf emits empty array",
			declare: func(b *Builder) {
				b.IsDynamic()
				b.Exclude("Breed")
			},
			wantJSON: `{"mappings":{"dynamic":true,"fields":{"Breed":[]}}}`,
		},
		{
			name: "type set indirection",
			declare: func(b *Builder) {
				b.SetDynamic(DynamicTypeSet("X"))
				b.AddTypeSet("X", &StringField{}, &NumberField{})
			},
			wantJSON: `{"mappings":{"dynamic":{"typeSet":"X"},"fields":{}},"typeSets":[{"name":"X","types":[{"type":"string"},{"type":"number"}]}]}`,
		},
		{
			name: "embedded document recursion",
			declare: func(b *Builder) {
				b.Embed("Owner", func(s *scope) {
					s.IsDynamic()
					s.IndexAsString("Name")
				})
			},
			wantJSON: `{"mappings":{"dynamic":false,"fields":{"Owner":{"type":"document","dynamic":true,"fields":{"Name":{"type":"string"}}}}}}`,
		},
		{
			name: "embedded array with per-level stored source",
			declare: func(b *Builder) {
				b.EmbedArray("Visits", func(s *scope) {
					s.IndexAsDate("Date")
					s.StoreSourceFor("Notes")
				})
			},
			wantJSON: `{"mappings":{"dynamic":false,"fields":{"Visits":{"type":"embeddedDocuments","dynamic":false,"fields":{"Date":{"type":"date"}},"storedSource":{"include":["Notes"]}}}}}`,
		},
		{
			name: "field fanning out to scalar and embedded shape",
			declare: func(b *Builder) {
				b.Field("Owner", &StringField{})
				b.Embed("Owner", func(s *scope) {
					s.IndexAsString("City")
				})
			},
			wantJSON: `{"mappings":{"dynamic":false,"fields":{"Owner":[{"type":"string"},{"type":"document","dynamic":false,"fields":{"City":{"type":"string"}}}]}}}`,
		},
		{
			name: "string options and alternate analyzers",
			declare: func(b *Builder) {
				b.Field("Name", &StringField{
					Analyzer:    "lucene.english",
					IgnoreAbove: Ptr(255),
					Norms:       NormsOmit,
					Multi: []AlternateAnalyzer{
						{Name: "french", Type: &StringField{Analyzer: "lucene.french"}},
						{Name: "exact", Type: &StringField{Analyzer: "lucene.keyword"}},
					},
				})
			},
			// alternates carry kind defaults plus their own settings only:
			// the base field's ignoreAbove/norms are not inherited
			wantJSON: `{"mappings":{"dynamic":false,"fields":{"Name":{"type":"string","analyzer":"lucene.english","ignoreAbove":255,"norms":"omit","multi":{"french":{"type":"string","analyzer":"lucene.french"},"exact":{"type":"string","analyzer":"lucene.keyword"}}}}}}`,
		},
		{
			name: "autocomplete options",
			declare: func(b *Builder) {
				b.Field("Name", &AutocompleteField{
					MinGrams:       Ptr(3),
					MaxGrams:       Ptr(10),
					FoldDiacritics: Ptr(false),
					Tokenization:   TokenizationNGram,
				})
			},
			wantJSON: `{"mappings":{"dynamic":false,"fields":{"Name":{"type":"autocomplete","minGrams":3,"maxGrams":10,"foldDiacritics":false,"tokenization":"nGram"}}}}`,
		},
		{
			name: "number and token and geo options",
			declare: func(b *Builder) {
				b.Field("Age", &NumberField{Representation: RepresentationInt64, IndexDoubles: Ptr(false)})
				b.Field("Breed", &TokenField{Normalizer: "lowercase"})
				b.Field("Tags", &GeoField{IndexShapes: Ptr(true)})
			},
			wantJSON: `{"mappings":{"dynamic":false,"fields":{"Age":{"type":"number","representation":"int64","indexDoubles":false},"Breed":{"type":"token","normalizer":"lowercase"},"Tags":{"type":"geo","indexShapes":true}}}}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			b := NewBuilder(testPetType(), "")
			tc.declare(b)

			gotJSON, err := compileJSON(b)
			require.NoError(t, err)
			require.Equal(t, tc.wantJSON, gotJSON)
		})
	}
}

func TestCompile_TopLevelKeyOrder(t *testing.T) {
	t.Parallel()

	b := NewBuilder(testPetType(), "pets")
	b.HasAnalyzer("lucene.standard")
	b.HasSearchAnalyzer("lucene.keyword")
	b.HasPartitions(2)
	b.SetDynamic(DynamicTypeSet("S"))
	b.AddTypeSet("S", &StringField{})
	b.AddCustomAnalyzer(&CustomAnalyzer{
		Name: "cleaner",
		CharFilters: []CharFilter{
			&HTMLStripCharFilter{IgnoredTags: []string{"a"}},
		},
		Tokenizer: &StandardTokenizer{MaxTokenLength: Ptr(255)},
		TokenFilters: []TokenFilter{
			&LowercaseTokenFilter{},
			&TrimTokenFilter{},
		},
	})
	b.StoreSourceFor("Name")
	b.AddSynonyms("syn", "lucene.english", "synonyms_coll")

	gotJSON, err := compileJSON(b)
	require.NoError(t, err)

	wantJSON := `{"analyzer":"lucene.standard","searchAnalyzer":"lucene.keyword",` +
		`"mappings":{"dynamic":{"typeSet":"S"},"fields":{}},` +
		`"typeSets":[{"name":"S","types":[{"type":"string"}]}],` +
		`"analyzers":[{"name":"cleaner","charFilters":[{"type":"htmlStrip","ignoredTags":["a"]}],` +
		`"tokenizer":{"type":"standard","maxTokenLength":255},` +
		`"tokenFilters":[{"type":"lowercase"},{"type":"trim"}]}],` +
		`"storedSource":{"include":["Name"]},` +
		`"synonyms":[{"name":"syn","source":{"collection":"synonyms_coll"},"analyzer":"lucene.english"}],` +
		`"numPartitions":2}`
	require.Equal(t, wantJSON, gotJSON)
}

func TestCompile_AnalyzerPipelines(t *testing.T) {
	t.Parallel()

	b := NewBuilder(testPetType(), "")
	b.AddCustomAnalyzer(&CustomAnalyzer{
		Name: "mapped",
		CharFilters: []CharFilter{
			&MappingCharFilter{Mappings: map[string]string{"ß": "ss", "&": "and"}},
			&ICUNormalizeCharFilter{},
		},
		Tokenizer: &RegexCaptureGroupTokenizer{Pattern: `(\w+)`, Group: 1},
		TokenFilters: []TokenFilter{
			&StopwordTokenFilter{Tokens: []string{"the", "a"}, IgnoreCase: Ptr(true)},
			&WordDelimiterGraphTokenFilter{
				DelimiterOptions: &WordDelimiterOptions{
					GenerateWordParts: Ptr(true),
					PreserveOriginal:  Ptr(true),
				},
				ProtectedWords: &ProtectedWords{
					Words:      []string{"C++"},
					IgnoreCase: Ptr(false),
				},
			},
		},
	})

	gotJSON, err := compileJSON(b)
	require.NoError(t, err)

	// mapping table keys are emitted in sorted order for determinism
	wantAnalyzer := `{"name":"mapped",` +
		`"charFilters":[{"type":"mapping","mappings":{"&":"and","ß":"ss"}},{"type":"icuNormalize"}],` +
		`"tokenizer":{"type":"regexCaptureGroup","pattern":"(\\w+)","group":1},` +
		`"tokenFilters":[{"type":"stopword","tokens":["the","a"],"ignoreCase":true},` +
		`{"type":"wordDelimiterGraph","delimiterOptions":{"generateWordParts":true,"preserveOriginal":true},` +
		`"protectedWords":{"words":["C++"],"ignoreCase":false}}]}`
	require.Equal(t, wantAnalyzer, gjson.Get(gotJSON, "analyzers.0").Raw)
}

func TestCompile_MissingTokenizer(t *testing.T) {
	t.Parallel()

	b := NewBuilder(testPetType(), "")
	b.AddCustomAnalyzer(&CustomAnalyzer{Name: "broken"})

	model, err := b.Build()
	require.NoError(t, err)

	_, err = model.Definitions()
	require.ErrorIs(t, err, ErrMissingTokenizer{Analyzer: "broken"})
}

func TestCompile_Deterministic(t *testing.T) {
	t.Parallel()

	declare := func() *Builder {
		b := NewBuilder(testPetType(), "pets")
		b.IsDynamic()
		b.IndexAsString("Name")
		b.Field("Name", &TokenField{})
		b.StoreSourceFor("Breed")
		b.VectorField("Floats", SimilarityCosine, 2)
		return b
	}

	first, err := declare().Build()
	require.NoError(t, err)
	second, err := declare().Build()
	require.NoError(t, err)

	firstDefs, err := first.Definitions()
	require.NoError(t, err)
	secondDefs, err := second.Definitions()
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(firstDefs, secondDefs))

	// recompiling the same model is idempotent
	again, err := first.Definitions()
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(firstDefs, again))

	firstJSON, err := firstDefs[0].JSON()
	require.NoError(t, err)
	secondJSON, err := secondDefs[0].JSON()
	require.NoError(t, err)
	require.Equal(t, string(firstJSON), string(secondJSON))
	require.Equal(t, "string", gjson.GetBytes(firstJSON, "mappings.fields.Name.0.type").String())
}
