package storage

// DefaultCollection is the collection holding the R knowledge base.
const DefaultCollection = "r_knowledge_base"

// VectorDimension is the embedding size for text-embedding-3-small.
const VectorDimension = 1536

// IndexedChunk is the persisted form of a corpus chunk. The ID is derived
// deterministically from (source, chunk index), so upserting the same chunk
// twice overwrites rather than duplicates.
type IndexedChunk struct {
	ID         string
	Source     string // file path relative to the content root
	HeaderPath string // section hierarchy for prose chunks, empty otherwise
	ChunkIndex int
	FileKind   string
	Content    string
	Embedding  []float32
}

// ScoredChunk pairs an indexed chunk with its similarity score.
type ScoredChunk struct {
	Chunk *IndexedChunk
	Score float64
}
