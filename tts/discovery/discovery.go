// Package discovery merges voice metadata from a remote endpoint and the
// command bridge's own listing, with a static table as the last tier. The
// top-level Discover never fails: a worse tier is always available.
package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/alouette/alouette/internal/voicecache"
	"github.com/alouette/alouette/tts"
	"github.com/alouette/alouette/tts/bridge"
)

// DefaultVoiceListURL is the remote metadata endpoint queried first.
const DefaultVoiceListURL = "https://speech.platform.bing.com/consumer/speech/synthesize/readaloud/voices/list?trustedclienttoken=6A5AA1D4EAFF4E9FB37E23D68491D6F4"

// remoteVoice mirrors the JSON shape of the remote metadata endpoint.
type remoteVoice struct {
	Name        string   `json:"Name"`
	ShortName   string   `json:"ShortName"`
	DisplayName string   `json:"DisplayName"`
	LocalName   string   `json:"LocalName"`
	Locale      string   `json:"Locale"`
	Gender      string   `json:"Gender"`
	VoiceType   string   `json:"VoiceType"`
	StyleList   []string `json:"StyleList"`
}

// BridgeLister is the slice of the bridge client discovery depends on.
type BridgeLister interface {
	ListVoices(ctx context.Context) ([]string, error)
}

// Discovery resolves voice lists for the command-bridge engine.
type Discovery struct {
	httpClient *http.Client
	bridge     BridgeLister
	cache      *voicecache.Cache
	url        string
}

// Option configures a Discovery.
type Option func(*Discovery)

// WithHTTPClient overrides the HTTP client (tests use httptest servers).
func WithHTTPClient(client *http.Client) Option {
	return func(d *Discovery) { d.httpClient = client }
}

// WithURL overrides the remote metadata endpoint.
func WithURL(url string) Option {
	return func(d *Discovery) {
		if url != "" {
			d.url = url
		}
	}
}

// WithTimeout bounds the remote discovery request.
func WithTimeout(timeout time.Duration) Option {
	return func(d *Discovery) {
		if timeout > 0 {
			d.httpClient.Timeout = timeout
		}
	}
}

// New creates a Discovery backed by the given bridge lister and cache.
func New(lister BridgeLister, cache *voicecache.Cache, opts ...Option) *Discovery {
	d := &Discovery{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		bridge:     lister,
		cache:      cache,
		url:        DefaultVoiceListURL,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DiscoverFromRemote fetches the remote voice list. A non-200 response is
// fatal for this tier; individual malformed entries are skipped.
func (d *Discovery) DiscoverFromRemote(ctx context.Context) ([]tts.Voice, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.url, nil)
	if err != nil {
		return nil, fmt.Errorf("building voice list request: %w", err)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, tts.NewError(tts.ErrorCodeNetwork, "voice list request failed", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, tts.NewError(tts.ErrorCodeNetwork,
			fmt.Sprintf("voice list endpoint returned %d", resp.StatusCode), nil).
			WithDetail("status", resp.StatusCode)
	}

	var entries []remoteVoice
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decoding voice list: %w", err)
	}

	voices := make([]tts.Voice, 0, len(entries))
	skipped := 0
	for _, entry := range entries {
		voice, ok := normalizeRemote(entry)
		if !ok {
			skipped++
			continue
		}
		voices = append(voices, voice)
	}
	if skipped > 0 {
		log.Debug("skipped malformed remote voice entries", "skipped", skipped, "kept", len(voices))
	}
	return voices, nil
}

// normalizeRemote converts one remote entry into a Voice. Entries without an
// identity or locale are rejected.
func normalizeRemote(entry remoteVoice) (tts.Voice, bool) {
	id := entry.ShortName
	if id == "" {
		id = entry.Name
	}
	if id == "" || entry.Locale == "" {
		return tts.Voice{}, false
	}

	display := entry.DisplayName
	if display == "" {
		display = entry.LocalName
	}
	if display == "" {
		display = id
	}

	quality := tts.QualityStandard
	if strings.EqualFold(entry.VoiceType, "Neural") {
		quality = tts.QualityNeural
	}

	voice := tts.Voice{
		ID:                   id,
		DisplayName:          display,
		LanguageCode:         entry.Locale,
		CountryCode:          countryOf(entry.Locale),
		Gender:               tts.ParseGender(entry.Gender),
		Quality:              quality,
		SourceEngine:         tts.EngineCommandBridge,
		IsDefaultForLanguage: bridge.DefaultVoiceForLanguage(entry.Locale) == id,
	}
	if entry.Name != "" || len(entry.StyleList) > 0 {
		voice.Metadata = map[string]any{}
		if entry.Name != "" {
			voice.Metadata["nativeName"] = entry.Name
		}
		if len(entry.StyleList) > 0 {
			voice.Metadata["styles"] = entry.StyleList
		}
	}
	return voice, true
}

// DiscoverFromBridge derives voices from the bridge's own listing. Names
// that do not follow the <lang>-<COUNTRY>-<Voice> shape are skipped.
func (d *Discovery) DiscoverFromBridge(ctx context.Context) ([]tts.Voice, error) {
	if d.bridge == nil {
		return nil, fmt.Errorf("no bridge lister configured")
	}
	names, err := d.bridge.ListVoices(ctx)
	if err != nil {
		return nil, err
	}

	voices := make([]tts.Voice, 0, len(names))
	for _, name := range names {
		locale, ok := localeOf(name)
		if !ok {
			log.Debug("skipping unparseable bridge voice name", "name", name)
			continue
		}
		voices = append(voices, tts.Voice{
			ID:                   name,
			DisplayName:          name,
			LanguageCode:         locale,
			CountryCode:          countryOf(locale),
			Gender:               tts.GenderUnknown,
			Quality:              tts.QualityNeural,
			SourceEngine:         tts.EngineCommandBridge,
			IsDefaultForLanguage: bridge.DefaultVoiceForLanguage(locale) == name,
		})
	}
	return voices, nil
}

// Discover resolves the full voice list through the three tiers: remote,
// bridge listing, then the static table. It never returns an error and the
// result is never empty. Results are cached under the engine+language key.
func (d *Discovery) Discover(ctx context.Context) []tts.Voice {
	cacheKey := voicecache.Key(tts.EngineCommandBridge, "all")
	if d.cache != nil {
		if cached := d.cache.Get(cacheKey); len(cached) > 0 {
			return cached
		}
	}

	voices, err := d.DiscoverFromRemote(ctx)
	if err != nil || len(voices) == 0 {
		if err != nil {
			log.Debug("remote voice discovery failed, trying bridge", "err", err)
		}
		voices, err = d.DiscoverFromBridge(ctx)
	}
	if err != nil || len(voices) == 0 {
		if err != nil {
			log.Debug("bridge voice discovery failed, using static table", "err", err)
		}
		voices = StaticVoices()
	}

	if d.cache != nil {
		d.cache.Put(cacheKey, voices)
	}
	return voices
}

// localeOf extracts "en-US" from "en-US-AriaNeural".
func localeOf(name string) (string, bool) {
	parts := strings.SplitN(name, "-", 3)
	if len(parts) < 3 || len(parts[0]) < 2 || len(parts[1]) < 2 {
		return "", false
	}
	return parts[0] + "-" + parts[1], true
}

// countryOf extracts "US" from "en-US".
func countryOf(locale string) string {
	if i := strings.IndexAny(locale, "-_"); i >= 0 && i+1 < len(locale) {
		return locale[i+1:]
	}
	return ""
}
