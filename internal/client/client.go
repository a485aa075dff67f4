package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"rusunawa/internal/metrics"
	"rusunawa/internal/models"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const roomsCacheKey = "rooms:catalog"

// BackendClient calls the authoritative rusunawa backend API. The room
// catalog is cached in-process; rates are never cached and every call
// goes to the wire.
type BackendClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client

	roomCache *gocache.Cache

	redis    *redis.Client
	cacheTTL time.Duration

	logger *zerolog.Logger
}

// NewBackendClient constructs a client with baseURL, API key and request
// timeout. Room catalog responses are cached for roomCacheTTL.
func NewBackendClient(baseURL, apiKey string, timeout, roomCacheTTL time.Duration, logger *zerolog.Logger) *BackendClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &BackendClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		roomCache:  gocache.New(roomCacheTTL, 2*roomCacheTTL),
		logger:     logger,
	}
}

// UseRedisCache configures optional Redis caching for GET endpoints.
func (c *BackendClient) UseRedisCache(redisClient *redis.Client, ttl time.Duration) {
	c.redis = redisClient
	c.cacheTTL = ttl
}

// GetRoom fetches a single room with its occupants.
func (c *BackendClient) GetRoom(ctx context.Context, roomID int64) (*models.Room, error) {
	endpoint := fmt.Sprintf("%s/v1/rooms/%d", c.baseURL, roomID)

	var raw roomDTO
	if err := c.doGet(ctx, "get_room", endpoint, &raw); err != nil {
		return nil, err
	}

	room, err := raw.normalize()
	if err != nil {
		return nil, fmt.Errorf("normalize room %d: %w", roomID, err)
	}
	return room, nil
}

// ListRooms returns the room catalog, served from the in-process cache
// when fresh.
func (c *BackendClient) ListRooms(ctx context.Context) ([]models.Room, error) {
	if cached, ok := c.roomCache.Get(roomsCacheKey); ok {
		return cached.([]models.Room), nil
	}

	endpoint := fmt.Sprintf("%s/v1/rooms", c.baseURL)
	cacheKey := "backend:rooms"

	var wrap struct {
		Rooms []roomDTO `json:"rooms"`
	}
	if !c.readCache(ctx, cacheKey, &wrap) {
		if err := c.doGet(ctx, "list_rooms", endpoint, &wrap); err != nil {
			return nil, err
		}
		c.writeCache(ctx, cacheKey, wrap)
	}

	rooms := make([]models.Room, 0, len(wrap.Rooms))
	for _, raw := range wrap.Rooms {
		room, err := raw.normalize()
		if err != nil {
			c.logger.Warn().Err(err).Int64("room_id", raw.ID).Msg("skipping malformed room")
			continue
		}
		rooms = append(rooms, *room)
	}

	c.roomCache.Set(roomsCacheKey, rooms, gocache.DefaultExpiration)
	return rooms, nil
}

// BlockedRanges fetches blocked-date intervals for a room over [start, end].
func (c *BackendClient) BlockedRanges(ctx context.Context, roomID int64, start, end time.Time) ([]models.BlockedRange, error) {
	endpoint := fmt.Sprintf("%s/v1/rooms/%d/blocked?start=%s&end=%s",
		c.baseURL, roomID,
		url.QueryEscape(start.Format("2006-01-02")),
		url.QueryEscape(end.Format("2006-01-02")))

	var wrap struct {
		Blocked []blockedRangeDTO `json:"blocked_ranges"`
	}
	if err := c.doGet(ctx, "blocked_ranges", endpoint, &wrap); err != nil {
		return nil, err
	}

	ranges := make([]models.BlockedRange, 0, len(wrap.Blocked))
	for _, raw := range wrap.Blocked {
		br, err := raw.normalize(roomID)
		if err != nil {
			return nil, fmt.Errorf("normalize blocked range: %w", err)
		}
		ranges = append(ranges, br)
	}
	return ranges, nil
}

// OccupantCount asks the backend how many occupants count toward
// capacity for the room over [start, end].
func (c *BackendClient) OccupantCount(ctx context.Context, roomID int64, start, end time.Time) (int, error) {
	endpoint := fmt.Sprintf("%s/v1/rooms/%d/occupancy?start=%s&end=%s",
		c.baseURL, roomID,
		url.QueryEscape(start.Format("2006-01-02")),
		url.QueryEscape(end.Format("2006-01-02")))

	var resp struct {
		OccupantCount int `json:"occupant_count"`
	}
	if err := c.doGet(ctx, "occupant_count", endpoint, &resp); err != nil {
		return 0, err
	}
	return resp.OccupantCount, nil
}

// GetRate fetches the applicable price for tenant/room/rental type.
// One request per rental type; no caching.
func (c *BackendClient) GetRate(ctx context.Context, tenantID, roomID int64, rentalType string) (*models.RateQuote, error) {
	endpoint := fmt.Sprintf("%s/v1/rates?tenant_id=%d&room_id=%d&rental_type=%s",
		c.baseURL, tenantID, roomID, url.QueryEscape(rentalType))

	var raw rateDTO
	if err := c.doGet(ctx, "get_rate", endpoint, &raw); err != nil {
		return nil, err
	}
	return raw.normalize(roomID, rentalType), nil
}

// SubmitBooking posts the draft to the backend booking endpoint.
func (c *BackendClient) SubmitBooking(ctx context.Context, draft *models.BookingDraft) (*models.BookingReceipt, error) {
	endpoint := fmt.Sprintf("%s/v1/bookings", c.baseURL)

	body := map[string]any{
		"tenant_id":   draft.TenantID,
		"room_id":     draft.RoomID,
		"rental_type": draft.RentalType,
		"start_date":  draft.StartDate.Format("2006-01-02"),
		"end_date":    draft.EndDate.Format("2006-01-02"),
		"notes":       draft.Notes,
	}

	var receipt models.BookingReceipt
	if err := c.doPost(ctx, "submit_booking", endpoint, body, &receipt); err != nil {
		return nil, err
	}
	return &receipt, nil
}

// TenantBookings lists the tenant's bookings as known to the backend.
func (c *BackendClient) TenantBookings(ctx context.Context, tenantID int64) ([]models.Booking, error) {
	endpoint := fmt.Sprintf("%s/v1/tenants/%d/bookings", c.baseURL, tenantID)

	var wrap struct {
		Bookings []models.Booking `json:"bookings"`
	}
	if err := c.doGet(ctx, "tenant_bookings", endpoint, &wrap); err != nil {
		return nil, err
	}
	return wrap.Bookings, nil
}

// TenantPayments lists the tenant's payment records.
func (c *BackendClient) TenantPayments(ctx context.Context, tenantID int64) ([]models.Payment, error) {
	endpoint := fmt.Sprintf("%s/v1/tenants/%d/payments", c.baseURL, tenantID)

	var wrap struct {
		Payments []models.Payment `json:"payments"`
	}
	if err := c.doGet(ctx, "tenant_payments", endpoint, &wrap); err != nil {
		return nil, err
	}
	return wrap.Payments, nil
}

func (c *BackendClient) readCache(ctx context.Context, key string, out any) bool {
	if c.redis == nil || c.cacheTTL <= 0 {
		return false
	}
	val, err := c.redis.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	if err := json.Unmarshal([]byte(val), out); err != nil {
		return false
	}
	return true
}

func (c *BackendClient) writeCache(ctx context.Context, key string, val any) {
	if c.redis == nil || c.cacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(val)
	if err != nil {
		return
	}
	_ = c.redis.Set(ctx, key, data, c.cacheTTL).Err()
}

func (c *BackendClient) doGet(ctx context.Context, operation, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	c.addHeaders(req)
	return c.do(operation, req, out)
}

func (c *BackendClient) doPost(ctx context.Context, operation, endpoint string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(string(data)))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	c.addHeaders(req)
	return c.do(operation, req, out)
}

func (c *BackendClient) do(operation string, req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.IncBackend(operation, "error")
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		metrics.IncBackend(operation, "error")
		return fmt.Errorf("backend %s: http %d", operation, resp.StatusCode)
	}
	metrics.IncBackend(operation, "ok")

	if out == nil {
		return nil
	}
	dec := json.NewDecoder(resp.Body)
	return dec.Decode(out)
}

func (c *BackendClient) addHeaders(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}
}
