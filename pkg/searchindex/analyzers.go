// SPDX-License-Identifier: Apache-2.0

package searchindex

import (
	"sort"

	"go.mongodb.org/mongo-driver/bson"
)

// CustomAnalyzer is a named analysis pipeline: optional ordered char filters,
// exactly one tokenizer, optional ordered token filters. The tokenizer check
// is deferred to compile time since the pipeline is assembled incrementally.
type CustomAnalyzer struct {
	Name         string
	CharFilters  []CharFilter
	Tokenizer    Tokenizer
	TokenFilters []TokenFilter
}

func (a *CustomAnalyzer) compile() (bson.D, error) {
	if a.Tokenizer == nil {
		return nil, ErrMissingTokenizer{Analyzer: a.Name}
	}

	doc := bson.D{{Key: "name", Value: a.Name}}
	if len(a.CharFilters) > 0 {
		filters := make(bson.A, 0, len(a.CharFilters))
		for _, cf := range a.CharFilters {
			filters = append(filters, cf.charFilterDoc())
		}
		doc = append(doc, bson.E{Key: "charFilters", Value: filters})
	}
	doc = append(doc, bson.E{Key: "tokenizer", Value: a.Tokenizer.tokenizerDoc()})
	if len(a.TokenFilters) > 0 {
		filters := make(bson.A, 0, len(a.TokenFilters))
		for _, tf := range a.TokenFilters {
			filters = append(filters, tf.tokenFilterDoc())
		}
		doc = append(doc, bson.E{Key: "tokenFilters", Value: filters})
	}
	return doc, nil
}

// CharFilter preprocesses raw text before tokenization. Sealed variant set.
type CharFilter interface {
	charFilterDoc() bson.D
}

type HTMLStripCharFilter struct {
	IgnoredTags []string
}

func (f *HTMLStripCharFilter) charFilterDoc() bson.D {
	doc := bson.D{{Key: "type", Value: "htmlStrip"}}
	if len(f.IgnoredTags) > 0 {
		doc = append(doc, bson.E{Key: "ignoredTags", Value: stringArray(f.IgnoredTags)})
	}
	return doc
}

type MappingCharFilter struct {
	Mappings map[string]string
}

func (f *MappingCharFilter) charFilterDoc() bson.D {
	keys := make([]string, 0, len(f.Mappings))
	for k := range f.Mappings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	mappings := make(bson.D, 0, len(keys))
	for _, k := range keys {
		mappings = append(mappings, bson.E{Key: k, Value: f.Mappings[k]})
	}
	return bson.D{
		{Key: "type", Value: "mapping"},
		{Key: "mappings", Value: mappings},
	}
}

type ICUNormalizeCharFilter struct{}

func (f *ICUNormalizeCharFilter) charFilterDoc() bson.D {
	return bson.D{{Key: "type", Value: "icuNormalize"}}
}

type PersianCharFilter struct{}

func (f *PersianCharFilter) charFilterDoc() bson.D {
	return bson.D{{Key: "type", Value: "persian"}}
}

// Tokenizer splits a filtered character stream into tokens. Sealed variant
// set.
type Tokenizer interface {
	tokenizerDoc() bson.D
}

type KeywordTokenizer struct{}

func (t *KeywordTokenizer) tokenizerDoc() bson.D {
	return bson.D{{Key: "type", Value: "keyword"}}
}

type WhitespaceTokenizer struct {
	MaxTokenLength *int
}

func (t *WhitespaceTokenizer) tokenizerDoc() bson.D {
	doc := bson.D{{Key: "type", Value: "whitespace"}}
	if t.MaxTokenLength != nil {
		doc = append(doc, bson.E{Key: "maxTokenLength", Value: *t.MaxTokenLength})
	}
	return doc
}

type StandardTokenizer struct {
	MaxTokenLength *int
}

func (t *StandardTokenizer) tokenizerDoc() bson.D {
	doc := bson.D{{Key: "type", Value: "standard"}}
	if t.MaxTokenLength != nil {
		doc = append(doc, bson.E{Key: "maxTokenLength", Value: *t.MaxTokenLength})
	}
	return doc
}

type NGramTokenizer struct {
	MinGram int
	MaxGram int
}

func (t *NGramTokenizer) tokenizerDoc() bson.D {
	return bson.D{
		{Key: "type", Value: "nGram"},
		{Key: "minGram", Value: t.MinGram},
		{Key: "maxGram", Value: t.MaxGram},
	}
}

type EdgeGramTokenizer struct {
	MinGram int
	MaxGram int
}

func (t *EdgeGramTokenizer) tokenizerDoc() bson.D {
	return bson.D{
		{Key: "type", Value: "edgeGram"},
		{Key: "minGram", Value: t.MinGram},
		{Key: "maxGram", Value: t.MaxGram},
	}
}

type RegexSplitTokenizer struct {
	Pattern string
}

func (t *RegexSplitTokenizer) tokenizerDoc() bson.D {
	return bson.D{
		{Key: "type", Value: "regexSplit"},
		{Key: "pattern", Value: t.Pattern},
	}
}

type RegexCaptureGroupTokenizer struct {
	Pattern string
	Group   int
}

func (t *RegexCaptureGroupTokenizer) tokenizerDoc() bson.D {
	return bson.D{
		{Key: "type", Value: "regexCaptureGroup"},
		{Key: "pattern", Value: t.Pattern},
		{Key: "group", Value: t.Group},
	}
}

type UaxURLEmailTokenizer struct {
	MaxTokenLength *int
}

func (t *UaxURLEmailTokenizer) tokenizerDoc() bson.D {
	doc := bson.D{{Key: "type", Value: "uaxUrlEmail"}}
	if t.MaxTokenLength != nil {
		doc = append(doc, bson.E{Key: "maxTokenLength", Value: *t.MaxTokenLength})
	}
	return doc
}

// TokenFilter postprocesses the token stream. Sealed variant set.
type TokenFilter interface {
	tokenFilterDoc() bson.D
}

type OriginalTokens string

const (
	OriginalTokensInclude OriginalTokens = "include"
	OriginalTokensOmit    OriginalTokens = "omit"
)

type AsciiFoldingTokenFilter struct {
	OriginalTokens OriginalTokens
}

func (f *AsciiFoldingTokenFilter) tokenFilterDoc() bson.D {
	doc := bson.D{{Key: "type", Value: "asciiFolding"}}
	if f.OriginalTokens != "" {
		doc = append(doc, bson.E{Key: "originalTokens", Value: string(f.OriginalTokens)})
	}
	return doc
}

type DaitchMokotoffSoundexTokenFilter struct {
	OriginalTokens OriginalTokens
}

func (f *DaitchMokotoffSoundexTokenFilter) tokenFilterDoc() bson.D {
	doc := bson.D{{Key: "type", Value: "daitchMokotoffSoundex"}}
	if f.OriginalTokens != "" {
		doc = append(doc, bson.E{Key: "originalTokens", Value: string(f.OriginalTokens)})
	}
	return doc
}

type EdgeGramTokenFilter struct {
	MinGram          int
	MaxGram          int
	TermsNotInBounds OriginalTokens
}

func (f *EdgeGramTokenFilter) tokenFilterDoc() bson.D {
	doc := bson.D{
		{Key: "type", Value: "edgeGram"},
		{Key: "minGram", Value: f.MinGram},
		{Key: "maxGram", Value: f.MaxGram},
	}
	if f.TermsNotInBounds != "" {
		doc = append(doc, bson.E{Key: "termsNotInBounds", Value: string(f.TermsNotInBounds)})
	}
	return doc
}

type NGramTokenFilter struct {
	MinGram          int
	MaxGram          int
	TermsNotInBounds OriginalTokens
}

func (f *NGramTokenFilter) tokenFilterDoc() bson.D {
	doc := bson.D{
		{Key: "type", Value: "nGram"},
		{Key: "minGram", Value: f.MinGram},
		{Key: "maxGram", Value: f.MaxGram},
	}
	if f.TermsNotInBounds != "" {
		doc = append(doc, bson.E{Key: "termsNotInBounds", Value: string(f.TermsNotInBounds)})
	}
	return doc
}

type EnglishPossessiveTokenFilter struct{}

func (f *EnglishPossessiveTokenFilter) tokenFilterDoc() bson.D {
	return bson.D{{Key: "type", Value: "englishPossessive"}}
}

type FlattenGraphTokenFilter struct{}

func (f *FlattenGraphTokenFilter) tokenFilterDoc() bson.D {
	return bson.D{{Key: "type", Value: "flattenGraph"}}
}

type ICUFoldingTokenFilter struct{}

func (f *ICUFoldingTokenFilter) tokenFilterDoc() bson.D {
	return bson.D{{Key: "type", Value: "icuFolding"}}
}

type ICUNormalizerTokenFilter struct {
	NormalizationForm string
}

func (f *ICUNormalizerTokenFilter) tokenFilterDoc() bson.D {
	doc := bson.D{{Key: "type", Value: "icuNormalizer"}}
	if f.NormalizationForm != "" {
		doc = append(doc, bson.E{Key: "normalizationForm", Value: f.NormalizationForm})
	}
	return doc
}

type KStemmingTokenFilter struct{}

func (f *KStemmingTokenFilter) tokenFilterDoc() bson.D {
	return bson.D{{Key: "type", Value: "kStemming"}}
}

type LengthTokenFilter struct {
	Min *int
	Max *int
}

func (f *LengthTokenFilter) tokenFilterDoc() bson.D {
	doc := bson.D{{Key: "type", Value: "length"}}
	if f.Min != nil {
		doc = append(doc, bson.E{Key: "min", Value: *f.Min})
	}
	if f.Max != nil {
		doc = append(doc, bson.E{Key: "max", Value: *f.Max})
	}
	return doc
}

type LowercaseTokenFilter struct{}

func (f *LowercaseTokenFilter) tokenFilterDoc() bson.D {
	return bson.D{{Key: "type", Value: "lowercase"}}
}

type PorterStemmingTokenFilter struct{}

func (f *PorterStemmingTokenFilter) tokenFilterDoc() bson.D {
	return bson.D{{Key: "type", Value: "porterStemming"}}
}

type RegexTokenFilter struct {
	Pattern     string
	Replacement string
	Matches     string // "all" or "first"
}

func (f *RegexTokenFilter) tokenFilterDoc() bson.D {
	return bson.D{
		{Key: "type", Value: "regex"},
		{Key: "pattern", Value: f.Pattern},
		{Key: "replacement", Value: f.Replacement},
		{Key: "matches", Value: f.Matches},
	}
}

type ReverseTokenFilter struct{}

func (f *ReverseTokenFilter) tokenFilterDoc() bson.D {
	return bson.D{{Key: "type", Value: "reverse"}}
}

type ShingleTokenFilter struct {
	MinShingleSize int
	MaxShingleSize int
}

func (f *ShingleTokenFilter) tokenFilterDoc() bson.D {
	return bson.D{
		{Key: "type", Value: "shingle"},
		{Key: "minShingleSize", Value: f.MinShingleSize},
		{Key: "maxShingleSize", Value: f.MaxShingleSize},
	}
}

type SnowballStemmingTokenFilter struct {
	StemmerName string
}

func (f *SnowballStemmingTokenFilter) tokenFilterDoc() bson.D {
	return bson.D{
		{Key: "type", Value: "snowballStemming"},
		{Key: "stemmerName", Value: f.StemmerName},
	}
}

type SpanishPluralStemmingTokenFilter struct{}

func (f *SpanishPluralStemmingTokenFilter) tokenFilterDoc() bson.D {
	return bson.D{{Key: "type", Value: "spanishPluralStemming"}}
}

type StempelTokenFilter struct{}

func (f *StempelTokenFilter) tokenFilterDoc() bson.D {
	return bson.D{{Key: "type", Value: "stempel"}}
}

type StopwordTokenFilter struct {
	Tokens     []string
	IgnoreCase *bool
}

func (f *StopwordTokenFilter) tokenFilterDoc() bson.D {
	doc := bson.D{
		{Key: "type", Value: "stopword"},
		{Key: "tokens", Value: stringArray(f.Tokens)},
	}
	if f.IgnoreCase != nil {
		doc = append(doc, bson.E{Key: "ignoreCase", Value: *f.IgnoreCase})
	}
	return doc
}

type TrimTokenFilter struct{}

func (f *TrimTokenFilter) tokenFilterDoc() bson.D {
	return bson.D{{Key: "type", Value: "trim"}}
}

// WordDelimiterGraphTokenFilter splits tokens at word boundaries, with a
// nested options struct and an optional protected-word list.
type WordDelimiterGraphTokenFilter struct {
	DelimiterOptions *WordDelimiterOptions
	ProtectedWords   *ProtectedWords
}

type WordDelimiterOptions struct {
	GenerateWordParts     *bool
	GenerateNumberParts   *bool
	ConcatenateWords      *bool
	ConcatenateNumbers    *bool
	ConcatenateAll        *bool
	PreserveOriginal      *bool
	SplitOnCaseChange     *bool
	SplitOnNumerics       *bool
	StemEnglishPossessive *bool
	IgnoreKeywords        *bool
}

type ProtectedWords struct {
	Words      []string
	IgnoreCase *bool
}

func (f *WordDelimiterGraphTokenFilter) tokenFilterDoc() bson.D {
	doc := bson.D{{Key: "type", Value: "wordDelimiterGraph"}}
	if opts := f.DelimiterOptions; opts != nil {
		optsDoc := bson.D{}
		appendBool := func(key string, v *bool) {
			if v != nil {
				optsDoc = append(optsDoc, bson.E{Key: key, Value: *v})
			}
		}
		appendBool("generateWordParts", opts.GenerateWordParts)
		appendBool("generateNumberParts", opts.GenerateNumberParts)
		appendBool("concatenateWords", opts.ConcatenateWords)
		appendBool("concatenateNumbers", opts.ConcatenateNumbers)
		appendBool("concatenateAll", opts.ConcatenateAll)
		appendBool("preserveOriginal", opts.PreserveOriginal)
		appendBool("splitOnCaseChange", opts.SplitOnCaseChange)
		appendBool("splitOnNumerics", opts.SplitOnNumerics)
		appendBool("stemEnglishPossessive", opts.StemEnglishPossessive)
		appendBool("ignoreKeywords", opts.IgnoreKeywords)
		doc = append(doc, bson.E{Key: "delimiterOptions", Value: optsDoc})
	}
	if pw := f.ProtectedWords; pw != nil {
		pwDoc := bson.D{{Key: "words", Value: stringArray(pw.Words)}}
		if pw.IgnoreCase != nil {
			pwDoc = append(pwDoc, bson.E{Key: "ignoreCase", Value: *pw.IgnoreCase})
		}
		doc = append(doc, bson.E{Key: "protectedWords", Value: pwDoc})
	}
	return doc
}

// SynonymMapping wires a synonym source collection and the analyzer used to
// match against it.
type SynonymMapping struct {
	Name             string
	SourceCollection string
	Analyzer         string
}

func (s SynonymMapping) compile() bson.D {
	return bson.D{
		{Key: "name", Value: s.Name},
		{Key: "source", Value: bson.D{{Key: "collection", Value: s.SourceCollection}}},
		{Key: "analyzer", Value: s.Analyzer},
	}
}

func stringArray(values []string) bson.A {
	arr := make(bson.A, 0, len(values))
	for _, v := range values {
		arr = append(arr, v)
	}
	return arr
}
