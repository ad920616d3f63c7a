package cart

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/genesis-wellness/storefront-api/internal/pricing"
)

// ErrNotFound indicates the requested cart could not be located.
var ErrNotFound = errors.New("cart not found")

// ErrInvalidInput is returned when the provided payload is invalid.
var ErrInvalidInput = errors.New("invalid input")

// Service stores cart lines in Redis, one JSON document per cart, expiring
// after the configured TTL.
type Service struct {
	Client *redis.Client
	TTL    time.Duration
	Prefix string
}

func (s *Service) ttl() time.Duration {
	if s == nil || s.TTL <= 0 {
		return 7 * 24 * time.Hour
	}
	return s.TTL
}

func (s *Service) key(cartID string) string {
	prefix := s.Prefix
	if prefix == "" {
		prefix = "cart:"
	}
	return prefix + cartID
}

// Create allocates a new empty cart and returns its identifier.
func (s *Service) Create(ctx context.Context) (string, error) {
	if s == nil || s.Client == nil {
		return "", errors.New("cart service not configured")
	}
	cartID := uuid.NewString()
	if err := s.save(ctx, cartID, nil); err != nil {
		return "", err
	}
	return cartID, nil
}

// Lines loads the cart contents. A missing cart is ErrNotFound.
func (s *Service) Lines(ctx context.Context, cartID string) ([]pricing.Line, error) {
	if s == nil || s.Client == nil {
		return nil, errors.New("cart service not configured")
	}
	data, err := s.Client.Get(ctx, s.key(cartID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var lines []pricing.Line
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, err
	}
	return normalize(lines), nil
}

// AddItems inserts or increments cart lines. Product ids that do not resolve
// are skipped; quantity for an existing product accumulates.
func (s *Service) AddItems(ctx context.Context, cartID string, productIDs []string, qty int, resolve func(string) bool) error {
	if qty <= 0 {
		qty = 1
	}
	lines, err := s.Lines(ctx, cartID)
	if err != nil {
		return err
	}
	for _, raw := range productIDs {
		id := strings.TrimSpace(raw)
		if id == "" || (resolve != nil && !resolve(id)) {
			continue
		}
		found := false
		for i := range lines {
			if lines[i].ProductID == id {
				lines[i].Quantity += qty
				found = true
				break
			}
		}
		if !found {
			lines = append(lines, pricing.Line{ProductID: id, Quantity: qty})
		}
	}
	return s.save(ctx, cartID, lines)
}

// SetQuantity replaces a line's quantity. Zero or negative removes the line.
func (s *Service) SetQuantity(ctx context.Context, cartID, productID string, qty int) error {
	lines, err := s.Lines(ctx, cartID)
	if err != nil {
		return err
	}
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return ErrInvalidInput
	}
	out := lines[:0]
	for _, line := range lines {
		if line.ProductID == productID {
			if qty > 0 {
				out = append(out, pricing.Line{ProductID: productID, Quantity: qty})
			}
			continue
		}
		out = append(out, line)
	}
	return s.save(ctx, cartID, out)
}

// Remove drops a line from the cart.
func (s *Service) Remove(ctx context.Context, cartID, productID string) error {
	return s.SetQuantity(ctx, cartID, productID, 0)
}

// Clear empties the cart while keeping it alive.
func (s *Service) Clear(ctx context.Context, cartID string) error {
	if _, err := s.Lines(ctx, cartID); err != nil {
		return err
	}
	return s.save(ctx, cartID, nil)
}

func (s *Service) save(ctx context.Context, cartID string, lines []pricing.Line) error {
	data, err := json.Marshal(normalize(lines))
	if err != nil {
		return err
	}
	return s.Client.Set(ctx, s.key(cartID), data, s.ttl()).Err()
}

// normalize merges duplicate product lines and drops non-positive quantities,
// preserving first-seen order.
func normalize(lines []pricing.Line) []pricing.Line {
	out := make([]pricing.Line, 0, len(lines))
	index := make(map[string]int, len(lines))
	for _, line := range lines {
		id := strings.TrimSpace(line.ProductID)
		if id == "" || line.Quantity <= 0 {
			continue
		}
		if at, ok := index[id]; ok {
			out[at].Quantity += line.Quantity
			continue
		}
		index[id] = len(out)
		out = append(out, pricing.Line{ProductID: id, Quantity: line.Quantity})
	}
	return out
}
