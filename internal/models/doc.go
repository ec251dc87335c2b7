// Package models lists the OpenAI models available to the configured API
// key, for picking enrichment and TTS models.
package models
