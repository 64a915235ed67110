// Package llm provides a provider-neutral abstraction layer for Large Language Model (LLM) APIs.
//
// This package defines common types, interfaces, and utilities that allow the codebase
// to work with multiple LLM providers (Anthropic, OpenAI, Ollama) without being
// tightly coupled to any specific provider's SDK.
//
// # Core Concepts
//
//  1. Questions: Config selects a Provider and model; Question carries an optional
//     system prompt, earlier Turns (oldest first) and the new prompt.
//
//  2. Requests: BuildRequest flattens a Question into a provider-neutral Request.
//     Each Turn becomes a user message followed by an assistant message, and the
//     new prompt is always last.
//
//  3. Client Interface: The Client interface provides Synchronous() for a single
//     request/response round trip. Implementations handle provider-specific details.
//
//  4. Credentials: ProviderRegistry resolves a Config into a ClientKey using an
//     injected CredentialLookup, so nothing here reads global state implicitly.
//
//  5. Middleware: The Middleware interface allows adding cross-cutting
//     concerns like logging without modifying provider implementations.
//
//  6. Errors: every failure is an *Error of kind ErrorKindModel, ErrorKindAPI or
//     ErrorKindUnexpected.
//
// Usage Example
//
//	registry := llm.NewProviderRegistry(nil, llm.EnvLookup)
//	key, err := registry.Resolve(llm.Config{Provider: llm.ProviderOpenAI, Model: "gpt-4o-mini"})
//	if err != nil {
//	    return err // missing OPENAI_API_KEY is an API failure
//	}
//
//	req := llm.BuildRequest(cfg, llm.Question{NewPrompt: "Hello!"})
//	resp, err := client.Synchronous(ctx, req)
//
// # Extension Points
//
// To add a new LLM provider:
//  1. Add a Provider constant and its credential handling in ProviderRegistry
//  2. Implement the Client interface
//  3. Translate between provider-specific types and llm package types
//  4. Classify provider-specific errors into *Error values
package llm
