package memory

import (
	"time"

	"content-engine-be/internal/entity"

	"github.com/patrickmn/go-cache"
)

const companyVoiceKey = "voice:company"

// VoiceCache keeps voice configs close to the turn path. Admin edits are rare,
// so a short TTL is the only invalidation besides explicit Invalidate calls.
type VoiceCache struct {
	cache *cache.Cache
}

func NewVoiceCache(ttl time.Duration) *VoiceCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &VoiceCache{
		cache: cache.New(ttl, 2*ttl),
	}
}

func platformKey(platform entity.Platform) string {
	return "voice:platform:" + string(platform)
}

// Company returns the cached company voice. A cached nil means "not configured".
func (c *VoiceCache) Company() (*entity.VoiceConfig, bool) {
	return c.get(companyVoiceKey)
}

func (c *VoiceCache) SetCompany(config *entity.VoiceConfig) {
	c.cache.Set(companyVoiceKey, config, cache.DefaultExpiration)
}

func (c *VoiceCache) Platform(platform entity.Platform) (*entity.VoiceConfig, bool) {
	return c.get(platformKey(platform))
}

func (c *VoiceCache) SetPlatform(platform entity.Platform, config *entity.VoiceConfig) {
	c.cache.Set(platformKey(platform), config, cache.DefaultExpiration)
}

func (c *VoiceCache) Invalidate() {
	c.cache.Flush()
}

func (c *VoiceCache) get(key string) (*entity.VoiceConfig, bool) {
	if x, found := c.cache.Get(key); found {
		config, _ := x.(*entity.VoiceConfig)
		return config, true
	}
	return nil, false
}
