package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type pingController struct{}

func (pingController) AddRoutes(router *http.ServeMux) {
	router.HandleFunc("GET /v1/ping", func(w http.ResponseWriter, r *http.Request) {
		ReplyJSONResponse(w, http.StatusOK, map[string]string{"pong": "ok"})
	})
}

var _ = ginkgo.Describe("HTTPServer", func() {
	var (
		tp       *trace.TracerProvider
		recorder *tracetest.SpanRecorder
	)

	ginkgo.BeforeEach(func() {
		recorder = tracetest.NewSpanRecorder()
		tp = trace.NewTracerProvider(trace.WithSpanProcessor(recorder))
		otel.SetTracerProvider(tp)
	})

	ginkgo.AfterEach(func() {
		tp.Shutdown(context.Background())
	})

	ginkgo.Context("TracingMiddleware", func() {
		ginkgo.When("using tracing middleware", func() {
			ginkgo.It("should add span to request context", func() {
				testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					span := GetSpanFromContext(r)
					gomega.Expect(span.SpanContext().HasSpanID()).To(gomega.BeTrue())

					w.WriteHeader(http.StatusNoContent)
				})

				wrappedHandler := createTracingMiddleware()(testHandler)

				req := httptest.NewRequest(http.MethodGet, "/test", nil)
				rec := httptest.NewRecorder()
				wrappedHandler.ServeHTTP(rec, req)

				gomega.Expect(rec.Code).To(gomega.Equal(http.StatusNoContent))
				gomega.Expect(rec.Header().Get("traceparent")).NotTo(gomega.BeEmpty())
				gomega.Expect(recorder.Ended()).To(gomega.HaveLen(1))
				gomega.Expect(recorder.Ended()[0].Name()).To(gomega.Equal("http.request"))
			})

			ginkgo.It("should continue the caller trace", func() {
				const traceID = "4bf92f3577b34da6a3ce929d0e0e4736"

				testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					span := GetSpanFromContext(r)
					gomega.Expect(span.SpanContext().TraceID().String()).To(gomega.Equal(traceID))
				})

				req := httptest.NewRequest(http.MethodGet, "/test", nil)
				req.Header.Set("traceparent", "00-"+traceID+"-00f067aa0ba902b7-01")
				createTracingMiddleware()(testHandler).ServeHTTP(httptest.NewRecorder(), req)
			})
		})
	})

	ginkgo.Context("GetSpanFromContext", func() {
		ginkgo.When("getting span from context", func() {
			ginkgo.It("should return a span even when no span is in context", func() {
				req := httptest.NewRequest(http.MethodGet, "/test", nil)
				span := GetSpanFromContext(req)

				gomega.Expect(span).NotTo(gomega.BeNil())
				gomega.Expect(span.SpanContext().IsValid()).To(gomega.BeFalse())
			})
		})
	})

	ginkgo.Context("NewServer", func() {
		var handler http.Handler

		ginkgo.BeforeEach(func() {
			handler = NewServer(ServerOpts{AllowedOrigins: []string{"http://localhost:5173"}}, pingController{}).Handler()
		})

		ginkgo.It("should serve the health check with node information", func() {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))

			var body healthzResponse
			gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(gomega.Succeed())
			gomega.Expect(body.Status).To(gomega.Equal("success"))
			gomega.Expect(body.NodeID).To(gomega.HaveLen(36))
		})

		ginkgo.It("should expose prometheus metrics", func() {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		})

		ginkgo.It("should register controller routes", func() {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/ping", nil))

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring("pong"))
		})

		ginkgo.It("should allow configured origins", func() {
			req := httptest.NewRequest(http.MethodGet, "/v1/ping", nil)
			req.Header.Set("Origin", "http://localhost:5173")
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			gomega.Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(gomega.Equal("http://localhost:5173"))
		})

		ginkgo.It("should default the listen address", func() {
			server := NewServer(ServerOpts{})

			gomega.Expect(server.server.Addr).To(gomega.Equal(":3000"))
		})
	})
})
