// Package prompt resolves, validates, and renders prompt templates.
//
// A template is located by an identifier, either a local file path or a
// hub:// logical path, and parsed into one of three kinds: a plain prompt,
// a few-shot prompt, or a chat prompt made of ordered role-tagged messages.
// All placeholder validation happens when a template is loaded; rendering is
// a pure substitution over an immutable definition.
//
// Resolving:
//
//	resolver := prompt.NewResolver(
//		prompt.WithBaseDir("./prompts"),
//		prompt.WithHub(hub.New()),
//	)
//	tmpl, err := resolver.Resolve(ctx, "greeting.yaml")
//	tmpl, err = resolver.Resolve(ctx, "hub://acme/support/greeting")
//
// Rendering:
//
//	out, err := tmpl.Render(map[string]any{"name": "World"})
//
// Chat templates additionally render to ordered messages:
//
//	chat, _ := tmpl.(*prompt.ChatTemplate)
//	msgs, err := chat.RenderMessages(map[string]any{"query": "hello"})
//
// Templates can also be built directly:
//
//	tmpl, err := prompt.NewPromptTemplate("Hello, {name}!", []string{"name"})
//
// Successful resolutions are memoized in a cache owned by the resolver; a
// failed resolution never leaves a cache entry behind. Errors carry the
// identifier or path attempted and the offending variable names, falling
// into five classes: RetrievalError, LoadError, FormatError,
// ValidationError, and RenderError.
package prompt
