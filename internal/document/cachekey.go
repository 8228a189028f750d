package document

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/Gunvolt24/farm_orders/internal/domain"
)

type cacheKeyPayload struct {
	Lines  []domain.OrderLine `json:"lines"`
	Client string             `json:"client"`
	Note   string             `json:"note"`
}

// CacheKey — ключ кеша документа: sha256 от содержимого заказа, клиента и примечания.
// Одинаковые заказы дают одинаковый ключ; время формирования в ключ не входит.
func CacheKey(order domain.Order, client, note string) string {
	raw, err := json.Marshal(cacheKeyPayload{
		Lines:  order.Lines,
		Client: strings.TrimSpace(client),
		Note:   CleanNote(note),
	})
	if err != nil {
		// OrderLine состоит из строк и чисел; сюда попадаем только при NaN/Inf
		return ""
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
