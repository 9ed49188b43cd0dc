// Package websearch turns a natural-language query into a grounded, cited
// answer. It fans a query out to a web search provider, crawls the result
// pages through an external crawl service, splits page content into
// overlapping sentence-aligned chunks, indexes them in a vector store under
// a per-request namespace, retrieves the most relevant chunks, and
// synthesizes a cited summary with an LLM.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., searxng/, crawl4ai/, sqlite/,
// gemini/).
package websearch
