// SPDX-License-Identifier: Apache-2.0

package searchindex

// FieldType is one discriminated field-type variant of the search index
// schema. The set is sealed: the compiler does an exhaustive switch over it.
type FieldType interface {
	fieldTypeName() string
}

func Ptr[T any](i T) *T { return &i }

// Dynamic configures dynamic mapping for one document level. A named type set
// implies dynamic mapping using that set's types.
type Dynamic struct {
	On      bool
	TypeSet string
}

func DynamicOn() Dynamic             { return Dynamic{On: true} }
func DynamicOff() Dynamic            { return Dynamic{} }
func DynamicTypeSet(name string) Dynamic {
	return Dynamic{On: true, TypeSet: name}
}

type IndexOption string

const (
	IndexOptionDocs      IndexOption = "docs"
	IndexOptionFreqs     IndexOption = "freqs"
	IndexOptionPositions IndexOption = "positions"
	IndexOptionOffsets   IndexOption = "offsets"
)

type Norms string

const (
	NormsInclude Norms = "include"
	NormsOmit    Norms = "omit"
)

type Tokenization string

const (
	TokenizationEdgeGram      Tokenization = "edgeGram"
	TokenizationRightEdgeGram Tokenization = "rightEdgeGram"
	TokenizationNGram         Tokenization = "nGram"
)

type NumberRepresentation string

const (
	RepresentationInt64  NumberRepresentation = "int64"
	RepresentationDouble NumberRepresentation = "double"
)

// AlternateAnalyzer is one named entry of a string or autocomplete field's
// "multi" map. The entry is a full type object of its own: it carries only
// its explicit settings plus kind defaults, never the base field's other
// overrides.
type AlternateAnalyzer struct {
	Name string
	Type FieldType
}

// StringField indexes a member as analyzed text.
type StringField struct {
	Analyzer       string
	SearchAnalyzer string
	Similarity     string
	IgnoreAbove    *int
	IndexOptions   IndexOption
	Store          *bool
	Norms          Norms
	Multi          []AlternateAnalyzer
}

func (*StringField) fieldTypeName() string { return "string" }

// TokenField indexes a member as a single not-analyzed token.
type TokenField struct {
	Normalizer string
}

func (*TokenField) fieldTypeName() string { return "token" }

// AutocompleteField indexes a member for type-ahead matching. The service
// defaults apply where unset: minGrams 2, maxGrams 15, foldDiacritics true,
// edgeGram tokenization.
type AutocompleteField struct {
	Analyzer       string
	Similarity     string
	MinGrams       *int
	MaxGrams       *int
	FoldDiacritics *bool
	Tokenization   Tokenization
	Multi          []AlternateAnalyzer
}

func (*AutocompleteField) fieldTypeName() string { return "autocomplete" }

type NumberField struct {
	Representation NumberRepresentation
	IndexIntegers  *bool
	IndexDoubles   *bool
}

func (*NumberField) fieldTypeName() string { return "number" }

type BooleanField struct{}

func (*BooleanField) fieldTypeName() string { return "boolean" }

type DateField struct{}

func (*DateField) fieldTypeName() string { return "date" }

type ObjectIDField struct{}

func (*ObjectIDField) fieldTypeName() string { return "objectId" }

type UUIDField struct{}

func (*UUIDField) fieldTypeName() string { return "uuid" }

type GeoField struct {
	IndexShapes *bool
}

func (*GeoField) fieldTypeName() string { return "geo" }

// documentField and embeddedDocumentsField are built through Embed and
// EmbedArray only; each owns a full sub-level with its own dynamic setting.
type documentField struct {
	level *mappingLevel
}

func (*documentField) fieldTypeName() string { return "document" }

type embeddedDocumentsField struct {
	level *mappingLevel
}

func (*embeddedDocumentsField) fieldTypeName() string { return "embeddedDocuments" }
