// Package llm provides clients for invoking Secret AI confidential LLM
// workers over their JSON/HTTP API.
//
// New returns one of two capabilities selected by an explicit option:
//
//	cli, err := llm.New("https://worker.example:11434",
//		llm.WithAPIKey(key))          // resilient client (default)
//
//	cli, err := llm.New(host,
//		llm.WithResilience(false))    // basic single-attempt client
//
// The resilient client wraps every Generate/Chat call in the retry executor
// from pkg/retry and validates successful payloads before returning them.
// Both clients attach a bearer authentication header derived from the API
// key once, at construction.
//
// A call either returns a valid response or exactly one error from the
// sdkerr taxonomy: ConfigError, NetworkError, ResponseError, or
// RetryExhaustedError. Transport-level errors are mapped before
// classification runs, so callers never see a raw net/http failure.
package llm
