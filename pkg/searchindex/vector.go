// SPDX-License-Identifier: Apache-2.0

package searchindex

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

type VectorSimilarity string

const (
	SimilarityCosine     VectorSimilarity = "cosine"
	SimilarityEuclidean  VectorSimilarity = "euclidean"
	SimilarityDotProduct VectorSimilarity = "dotProduct"
)

type VectorQuantization string

const (
	QuantizationNone   VectorQuantization = "none"
	QuantizationScalar VectorQuantization = "scalar"
	QuantizationBinary VectorQuantization = "binary"
)

// HNSWOptions tunes the index graph; zero values fall back to the service
// defaults and are not emitted.
type HNSWOptions struct {
	MaxEdges          int
	NumEdgeCandidates int
}

// VectorDefinition is one desired vector index: a vector field plus ordered
// filter paths.
type VectorDefinition struct {
	Name         string
	Path         string
	Dimensions   int
	Similarity   VectorSimilarity
	Quantization VectorQuantization
	HNSW         *HNSWOptions
	FilterPaths  []string
}

// VectorBuilder configures one vector index declaration started by
// Builder.VectorField.
type VectorBuilder struct {
	b   *Builder
	def *VectorDefinition
}

// VectorField declares a vector index over the member at the (possibly
// dotted) path. The index name defaults to the underscored wire path; use
// Named to override it when several indexes target the same path.
func (b *Builder) VectorField(path string, similarity VectorSimilarity, dimensions int) *VectorBuilder {
	def := &VectorDefinition{
		Dimensions: dimensions,
		Similarity: similarity,
	}
	vb := &VectorBuilder{b: b, def: def}

	wirePath, err := b.entity.WirePath(path)
	if err != nil {
		b.errs = append(b.errs, err)
		return vb
	}
	def.Path = wirePath
	def.Name = strings.ReplaceAll(wirePath, ".", "_") + "_vector_index"
	b.vectors = append(b.vectors, def)
	return vb
}

func (vb *VectorBuilder) Named(name string) *VectorBuilder {
	vb.def.Name = name
	return vb
}

func (vb *VectorBuilder) HasQuantization(q VectorQuantization) *VectorBuilder {
	vb.def.Quantization = q
	return vb
}

func (vb *VectorBuilder) HasEdgeOptions(maxEdges, numEdgeCandidates int) *VectorBuilder {
	vb.def.HNSW = &HNSWOptions{
		MaxEdges:          maxEdges,
		NumEdgeCandidates: numEdgeCandidates,
	}
	return vb
}

// AllowsFiltersOn declares filterable paths, kept in declaration order.
func (vb *VectorBuilder) AllowsFiltersOn(paths ...string) *VectorBuilder {
	for _, path := range paths {
		wirePath, err := vb.b.entity.WirePath(path)
		if err != nil {
			vb.b.errs = append(vb.b.errs, err)
			continue
		}
		vb.def.FilterPaths = append(vb.def.FilterPaths, wirePath)
	}
	return vb
}

// compileVector renders the vector index wire document: the vector field
// first, then one filter entry per declared path.
func compileVector(def *VectorDefinition) bson.D {
	vectorField := bson.D{
		{Key: "type", Value: "vector"},
		{Key: "path", Value: def.Path},
		{Key: "numDimensions", Value: def.Dimensions},
		{Key: "similarity", Value: string(def.Similarity)},
	}
	if def.Quantization != "" {
		vectorField = append(vectorField, bson.E{Key: "quantization", Value: string(def.Quantization)})
	}
	if def.HNSW != nil {
		vectorField = append(vectorField, bson.E{Key: "hnswOptions", Value: bson.D{
			{Key: "maxEdges", Value: def.HNSW.MaxEdges},
			{Key: "numEdgeCandidates", Value: def.HNSW.NumEdgeCandidates},
		}})
	}

	fields := bson.A{vectorField}
	for _, path := range def.FilterPaths {
		fields = append(fields, bson.D{
			{Key: "type", Value: "filter"},
			{Key: "path", Value: path},
		})
	}
	return bson.D{{Key: "fields", Value: fields}}
}
