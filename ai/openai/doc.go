// Package openai implements the ai.Embedder interface using
// OpenAI-compatible embedding APIs via langchaingo. It works with any
// service exposing the OpenAI embeddings endpoint, including local
// servers such as Ollama, LocalAI and vLLM.
package openai
