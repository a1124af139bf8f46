package integration

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/killallgit/prompthub/pkg/hub"
	"github.com/killallgit/prompthub/pkg/prompt"
)

var failureRegistry = map[string]string{
	"main/org/broken.yaml": `template: "Hello, {name}! Today is {day}."
input_variables:
  - name
`,
	"main/org/sloppy.yaml": `template: "Hello, {name}!"
input_variables:
  - name
  - extra
`,
	"main/org/welcome.yaml": `template: "Hello {name}, welcome to {place}!"
input_variables:
  - name
  - place
`,
	"main/org/garbled.yaml": `template: [unclosed
`,
	"main/org/mystery.yaml": `_type: pipeline
template: "{x}"
`,
	"main/org/cycle_a.yaml": `template: "{head}"
partials:
  head: hub://org/cycle_b
`,
	"main/org/cycle_b.yaml": `template: "{tail}"
partials:
  tail: hub://org/cycle_a
`,
}

var _ = Describe("Resolution Failures", func() {
	var (
		ctx      context.Context
		tmpDir   string
		server   *httptest.Server
		hits     atomic.Int64
		resolver *prompt.Resolver
	)

	BeforeEach(func() {
		ctx = context.Background()
		tmpDir = GinkgoT().TempDir()
		hits.Store(0)
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			p := strings.TrimPrefix(r.URL.Path, "/")
			if strings.HasSuffix(p, "boom.yaml") {
				w.WriteHeader(http.StatusInternalServerError)
				fmt.Fprint(w, "backend exploded")
				return
			}
			content, ok := failureRegistry[p]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				fmt.Fprint(w, "404: Not Found")
				return
			}
			fmt.Fprint(w, content)
		}))
		DeferCleanup(server.Close)

		client := hub.New(hub.WithBaseURL(server.URL + "/{ref}/"))
		resolver = prompt.NewResolver(
			prompt.WithBaseDir(tmpDir),
			prompt.WithHub(client),
		)
	})

	Context("with malformed identifiers", func() {
		It("rejects unknown schemes without touching the network", func() {
			_, err := resolver.Resolve(ctx, "ftp://org/greeting")
			Expect(prompt.IsInvalidIdentifier(err)).To(BeTrue())
			Expect(hits.Load()).To(BeZero())
		})

		It("rejects hub paths with a single segment", func() {
			_, err := resolver.Resolve(ctx, "hub://greeting")
			Expect(prompt.IsInvalidIdentifier(err)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("organization/name"))
		})

		It("rejects local paths without a template extension", func() {
			_, err := resolver.Resolve(ctx, "notes.md")
			Expect(prompt.IsInvalidIdentifier(err)).To(BeTrue())
		})
	})

	Context("when the source cannot be read", func() {
		It("reports a missing local file as a load failure", func() {
			_, err := resolver.Resolve(ctx, "missing.yaml")
			Expect(prompt.IsLoad(err)).To(BeTrue())
			Expect(errors.Is(err, fs.ErrNotExist)).To(BeTrue())

			var lerr *prompt.LoadError
			Expect(errors.As(err, &lerr)).To(BeTrue())
			Expect(lerr.Path).To(ContainSubstring("missing.yaml"))
		})

		It("carries the status and URL of a hub miss", func() {
			_, err := resolver.Resolve(ctx, "hub://org/unknown")
			Expect(prompt.IsRetrieval(err)).To(BeTrue())
			Expect(errors.Is(err, hub.ErrNotFound)).To(BeTrue())

			var rerr *prompt.RetrievalError
			Expect(errors.As(err, &rerr)).To(BeTrue())
			Expect(rerr.StatusCode).To(Equal(http.StatusNotFound))
			Expect(rerr.URL).To(Equal(server.URL + "/main/org/unknown.yaml"))
		})

		It("maps 5xx responses to the server error sentinel", func() {
			_, err := resolver.Resolve(ctx, "hub://org/boom")
			Expect(prompt.IsRetrieval(err)).To(BeTrue())
			Expect(errors.Is(err, hub.ErrServerError)).To(BeTrue())
		})

		It("fails hub identifiers when no hub client is attached", func() {
			detached := prompt.NewResolver(prompt.WithBaseDir(tmpDir))

			_, err := detached.Resolve(ctx, "hub://org/greeting")
			Expect(prompt.IsRetrieval(err)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("no hub client configured"))
		})

		It("surfaces a canceled context as a retrieval failure", func() {
			canceled, cancel := context.WithCancel(ctx)
			cancel()

			_, err := resolver.Resolve(canceled, "hub://org/broken")
			Expect(prompt.IsRetrieval(err)).To(BeTrue())
			Expect(errors.Is(err, context.Canceled)).To(BeTrue())

			var rerr *prompt.RetrievalError
			Expect(errors.As(err, &rerr)).To(BeTrue())
			Expect(rerr.StatusCode).To(BeZero())
		})
	})

	Context("when the template is malformed", func() {
		It("rejects descriptions that do not parse", func() {
			_, err := resolver.Resolve(ctx, "hub://org/garbled")
			Expect(prompt.IsFormat(err)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("failed to parse YAML template"))
		})

		It("rejects an unknown _type tag", func() {
			_, err := resolver.Resolve(ctx, "hub://org/mystery")
			Expect(prompt.IsFormat(err)).To(BeTrue())
			Expect(errors.Is(err, prompt.ErrUnknownKind)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("pipeline"))
		})

		It("detects partial reference cycles", func() {
			_, err := resolver.Resolve(ctx, "hub://org/cycle_a")
			Expect(prompt.IsFormat(err)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("partial reference cycle"))
		})
	})

	Context("when placeholders and declarations disagree", func() {
		It("fails on undeclared placeholders", func() {
			_, err := resolver.Resolve(ctx, "hub://org/broken")
			Expect(prompt.IsValidation(err)).To(BeTrue())

			var verr *prompt.ValidationError
			Expect(errors.As(err, &verr)).To(BeTrue())
			Expect(verr.Undeclared).To(Equal([]string{"day"}))
		})

		It("only warns about unused variables by default", func() {
			tmpl, err := resolver.Resolve(ctx, "hub://org/sloppy")
			Expect(err).ToNot(HaveOccurred())
			Expect(tmpl.Warnings()).To(ContainElement(`declared input variable "extra" is unused`))
		})

		It("fails on unused variables in strict mode", func() {
			client := hub.New(hub.WithBaseURL(server.URL + "/{ref}/"))
			strict := prompt.NewResolver(
				prompt.WithHub(client),
				prompt.WithStrict(true),
			)

			_, err := strict.Resolve(ctx, "hub://org/sloppy")
			Expect(prompt.IsValidation(err)).To(BeTrue())

			var verr *prompt.ValidationError
			Expect(errors.As(err, &verr)).To(BeTrue())
			Expect(verr.Unused).To(Equal([]string{"extra"}))
		})
	})

	Context("when render values are incomplete", func() {
		It("names every missing variable, sorted", func() {
			tmpl, err := resolver.Resolve(ctx, "hub://org/welcome")
			Expect(err).ToNot(HaveOccurred())

			_, err = tmpl.Render(map[string]any{})
			Expect(prompt.IsRender(err)).To(BeTrue())

			var rerr *prompt.RenderError
			Expect(errors.As(err, &rerr)).To(BeTrue())
			Expect(rerr.Missing).To(Equal([]string{"name", "place"}))
		})
	})
})
