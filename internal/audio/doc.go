// Package audio synthesizes spoken German for example sentences. It defines
// a Provider interface with an OpenAI TTS implementation and an offline
// espeak-ng implementation, and the filename convention that ties each audio
// file to its example sentence.
package audio
