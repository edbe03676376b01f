// Package gemini implements the structured extraction and remote
// transcription boundaries using Google's Gemini API. The extractor
// constrains the model to a declared JSON response schema so the result is
// deterministically parseable; anything else is a primary-path failure that
// the extraction chain recovers from locally.
package gemini
