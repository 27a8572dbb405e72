package provider

import (
	"context"
	"regexp"
	"strings"

	"github.com/patrickmn/go-cache"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/trip-assistant/internal/llm"
)

const airportSystem = `You map places to airports. Reply with only the IATA code of the main commercial airport serving the place. If a city has several major airports, reply with up to three codes separated by commas, busiest first. No other text.`

var (
	iataOnlyRe = regexp.MustCompile(`^[A-Z]{3}$`)
	iataRe     = regexp.MustCompile(`\b[A-Z]{3}\b`)
)

// Airports resolves a place name to airport codes accepted by the flights
// search, comma-separated when there are several.
type Airports interface {
	Resolve(ctx context.Context, place string) (string, error)
}

// AirportResolver asks a text generator for codes and caches the answer
// for the life of the process.
type AirportResolver struct {
	gen   llm.Generator
	cache *cache.Cache
}

// NewAirportResolver returns a resolver with an empty cache.
func NewAirportResolver(gen llm.Generator) *AirportResolver {
	return &AirportResolver{gen: gen, cache: cache.New(cache.NoExpiration, 0)}
}

func (r *AirportResolver) Resolve(ctx context.Context, place string) (string, error) {
	place = strings.TrimSpace(place)
	if iataOnlyRe.MatchString(place) {
		return place, nil
	}
	key := strings.ToLower(place)
	if v, ok := r.cache.Get(key); ok {
		return v.(string), nil
	}

	text, err := r.gen.Generate(ctx, llm.Request{
		Phase:       "airports",
		System:      airportSystem,
		Messages:    llm.Prompt("", "", place).Messages,
		MaxTokens:   20,
		Temperature: llm.Temp(0),
		Fast:        true,
	})
	if err != nil {
		return "", eris.Wrapf(err, "provider: resolve airport for %q", place)
	}
	codes := iataRe.FindAllString(text, 3)
	if len(codes) == 0 {
		return "", eris.Errorf("provider: no airport code for %q", place)
	}

	code := strings.Join(codes, ",")
	r.cache.SetDefault(key, code)
	zap.L().Debug("provider: airport resolved",
		zap.String("place", place),
		zap.String("codes", code),
	)
	return code, nil
}
