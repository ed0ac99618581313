// Package serializer validates REST payloads that carry a Markdown document.
//
// A Serializer restores native values (decoded JSON objects or multipart
// values) into validated Go data. WithMarkdown wraps a serializer so every
// tag in the uploaded document's front matter is injected into the payload
// when the client did not send it. FromOpenAPI derives a Markdown serializer
// from an OpenAPI request body.
package serializer
