// Package suggestion provides the interface for LLM-backed domain tag
// suggestion. It abstracts the details of the external model API
// (Gemini), allowing the application to propose knowledge domains for
// an experience description without coupling to a specific provider.
package suggestion
