// Package enrich asks an OpenAI chat model to analyze one raw vocabulary
// word: detect the language, correct spelling, translate, classify the word
// type, and produce grammar notes plus example sentences. The model is
// instructed to always return a best-effort valid German word, so ambiguous
// or garbled input never fails enrichment on purpose.
package enrich
