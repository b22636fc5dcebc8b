// Package domain contains the core types of the RAG pipeline: documents,
// chunks, vector store entries, search results, citations and the domain
// error sentinels. It has no dependencies on adapters or services.
package domain
