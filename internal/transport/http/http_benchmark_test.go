//go:build !integration

package rest

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Gunvolt24/farm_orders/internal/domain"
	"github.com/Gunvolt24/farm_orders/internal/ports"
)

// --- Бенчмарки ---

// Каталог: 10/100/1000 позиций — рост аллокаций на маршалинге
func BenchmarkHTTP_Catalog(b *testing.B) {
	for _, n := range []int{10, 100, 1000} {
		b.Run("N="+strconv.Itoa(n), func(b *testing.B) {
			cat := domain.Catalog{Products: make([]domain.ProductRecord, 0, n)}
			for i := 0; i < n; i++ {
				cat.Products = append(cat.Products, domain.ProductRecord{
					Name: "Produit " + strconv.Itoa(i), Category: "Autres", UnitKind: "unit",
					UnitPrice: 2.5, PriceLabel: "2,50 €",
				})
			}
			h := NewHandler(svcStub{cat: cat}, nopLogger{}, 2*time.Second)
			benchServe(b, makeLeanRouter(h), http.MethodGet, "/catalog?limit=1000", "")
		})
	}
}

// Предпросмотр: LEAN vs FULL пайплайн (разбор тела + сервис + JSON)
func BenchmarkHTTP_Preview(b *testing.B) {
	body := `{"client_name":"Jeanne","selections":[{"name":"Miel","selected":true,"quantity":2}]}`
	h := NewHandler(svcStub{}, nopLogger{}, 2*time.Second)

	b.Run("lean/no-mw", func(b *testing.B) {
		benchServe(b, makeLeanRouter(h), http.MethodPost, "/order/preview", body)
	})
	b.Run("full/prod-mw", func(b *testing.B) {
		benchServe(b, NewRouter(h, "", ""), http.MethodPost, "/order/preview", body)
	})
}

// ---- функции-помощники ----

type nopLogger struct{}

func (nopLogger) Infof(context.Context, string, ...any)  {}
func (nopLogger) Warnf(context.Context, string, ...any)  {}
func (nopLogger) Errorf(context.Context, string, ...any) {}

// svcStub — сервис без зависимостей, чтобы мерить только HTTP-слой.
type svcStub struct {
	cat domain.Catalog
}

func (s svcStub) Catalog(context.Context) (domain.Catalog, error) { return s.cat, nil }

func (svcStub) Preview(context.Context, domain.OrderRequest) (domain.OrderPreview, error) {
	return domain.OrderPreview{LineCount: 1, TotalLabel: "16,00 €"}, nil
}

func (svcStub) Document(context.Context, domain.OrderRequest) (domain.Document, error) {
	return domain.Document{Bytes: []byte("%PDF-"), FileName: "Commande_Jeanne_20240305.pdf", MediaType: domain.MediaTypePDF}, nil
}

func (svcStub) Email(context.Context, domain.OrderRequest) (ports.EmailOutcome, error) {
	return ports.EmailOutcome{Result: ports.DeliveryResult{OK: true}}, nil
}

// makeLeanRouter — только маршруты, без middleware.
func makeLeanRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.GET("/catalog", h.getCatalog)
	r.POST("/order/preview", h.previewOrder)
	return r
}

func benchServe(b *testing.B, r http.Handler, method, path, body string) {
	b.Helper()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var req *http.Request
		if body == "" {
			req = httptest.NewRequest(method, path, http.NoBody)
		} else {
			req = httptest.NewRequest(method, path, strings.NewReader(body))
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			b.Fatalf("unexpected status %d", w.Code)
		}
		_, _ = io.Copy(io.Discard, w.Body)
	}
}
