package synthetic

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/okian/playersim/internal/domain/model"
)

// Talent tiers, chosen per player.
const (
	tierAverage = iota
	tierHigh
	tierLow
	tierElite
	tierDepth
	tierCount
)

// Tier multipliers applied to a position's baseline per-game volume.
var tierScale = [tierCount]float64{
	tierAverage: 1.0,
	tierHigh:    1.35,
	tierLow:     0.7,
	tierElite:   1.7,
	tierDepth:   0.4,
}

// Constants for career and game generation.
const (
	minCareerSeasons  = 1
	maxCareerSeasons  = 8
	gamesMissedChance = 0.12
	noise             = 0.25
	estimateNoise     = 0.1
	pprReception      = 1.0
	pprYardScale      = 0.1
	pprTD             = 6.0
	pprPassYardScale  = 0.04
	pprPassTD         = 4.0
	pprInterception   = -2.0
)

type profile struct {
	id       string
	name     string
	pos      model.Position
	scale    float64
	style    float64
	first    int
	last     int
	catchPct float64
}

// Generate builds rows for every configured position. Output order and
// values depend only on cfg.
func Generate(cfg Config) []model.PlayerGameRow {
	rng := rand.New(rand.NewSource(cfg.Seed)) //nolint:gosec // deterministic seed for reproducible data
	if cfg.Weeks <= 0 {
		cfg.Weeks = defaultWeeks
	}

	var rows []model.PlayerGameRow
	for pi, pos := range cfg.Positions {
		for n := 0; n < cfg.Players; n++ {
			p := newProfile(rng, cfg, pos, pi, n)
			for season := p.first; season <= p.last; season++ {
				era := 1 + cfg.Inflation*float64(season-cfg.FromSeason)
				for week := 1; week <= cfg.Weeks; week++ {
					if rng.Float64() < gamesMissedChance {
						continue
					}
					rows = append(rows, gameRow(rng, cfg, p, season, week, era))
				}
			}
		}
	}
	return rows
}

func newProfile(rng *rand.Rand, cfg Config, pos model.Position, pi, n int) profile {
	span := cfg.ToSeason - cfg.FromSeason + 1
	length := minCareerSeasons + rng.Intn(maxCareerSeasons)
	first := cfg.FromSeason + rng.Intn(span)
	last := min(cfg.ToSeason, first+length-1)
	return profile{
		id:       fmt.Sprintf("00-%02d%05d", pi, n),
		name:     fmt.Sprintf("%s Player %d", pos, n+1),
		pos:      pos,
		scale:    tierScale[rng.Intn(tierCount)],
		style:    rng.Float64(),
		first:    first,
		last:     last,
		catchPct: 0.55 + rng.Float64()*0.2,
	}
}

func vary(rng *rand.Rand, mean float64) float64 {
	return math.Max(0, math.Round(mean*(1+rng.NormFloat64()*noise)))
}

func gameRow(rng *rand.Rand, cfg Config, p profile, season, week int, era float64) model.PlayerGameRow {
	s := make(map[model.StatField]float64)
	scale := p.scale * era
	switch p.pos {
	case model.PositionQB:
		att := vary(rng, 30*scale)
		cmp := math.Min(att, math.Round(att*(0.58+0.1*p.style)))
		yds := vary(rng, cmp*11)
		tds := vary(rng, att/15)
		ints := vary(rng, att/40)
		s[model.StatAttempts] = att
		s[model.StatCompletions] = cmp
		s[model.StatPassingYards] = yds
		s[model.StatPassingTDs] = tds
		s[model.StatInterceptions] = ints
		s[model.StatSacks] = vary(rng, 2)
		s[model.StatPassingAirYards] = vary(rng, att*(7+2*p.style))
		s[model.StatPassingEPA] = rng.NormFloat64()*4 + 3*(p.scale-1)
		s[model.StatCarries] = vary(rng, 3+5*p.style)
		s[model.StatRushingYards] = vary(rng, (3+5*p.style)*4)
		s[model.StatFantasyPointsPPR] = yds*pprPassYardScale + tds*pprPassTD + ints*pprInterception + s[model.StatRushingYards]*pprYardScale
	case model.PositionRB:
		car := vary(rng, 14*scale*(1-0.4*p.style))
		tgt := vary(rng, 2+5*p.style*scale)
		rec := math.Min(tgt, math.Round(tgt*p.catchPct))
		s[model.StatCarries] = car
		s[model.StatRushingYards] = vary(rng, car*4.3)
		s[model.StatRushingTDs] = vary(rng, car/30)
		s[model.StatRushingEPA] = rng.NormFloat64() * 2
		s[model.StatTargets] = tgt
		s[model.StatReceptions] = rec
		s[model.StatReceivingYards] = vary(rng, rec*7.5)
		s[model.StatReceivingTDs] = vary(rng, rec/25)
		s[model.StatReceivingEPA] = rng.NormFloat64()
		addRoutes(rng, cfg, s, season, 10+20*p.style)
		s[model.StatFantasyPointsPPR] = ppr(s)
	default:
		tgt := vary(rng, 7*scale)
		rec := math.Min(tgt, math.Round(tgt*p.catchPct))
		air := vary(rng, tgt*(6+8*p.style))
		s[model.StatTargets] = tgt
		s[model.StatReceptions] = rec
		s[model.StatReceivingYards] = vary(rng, rec*(9+5*p.style))
		s[model.StatReceivingTDs] = vary(rng, rec/15)
		s[model.StatReceivingAirYards] = air
		s[model.StatReceivingFirstDowns] = vary(rng, rec*0.6)
		s[model.StatReceivingEPA] = rng.NormFloat64()*2 + 2*(p.scale-1)
		addRoutes(rng, cfg, s, season, 28*scale)
		s[model.StatFantasyPointsPPR] = ppr(s)
	}
	src := model.RoutesNone
	if _, ok := s[model.StatRoutes]; ok {
		src = model.RoutesMeasured
		if season < cfg.RoutesMeasuredFrom {
			src = model.RoutesEstimated
		}
	}
	return model.PlayerGameRow{
		PlayerID:     p.id,
		Name:         p.name,
		Season:       season,
		Week:         week,
		Position:     p.pos,
		Stats:        s,
		RoutesSource: src,
	}
}

// addRoutes records routes; estimated seasons get a noisier value.
func addRoutes(rng *rand.Rand, cfg Config, s map[model.StatField]float64, season int, mean float64) {
	r := vary(rng, mean)
	if season < cfg.RoutesMeasuredFrom {
		r = math.Max(0, math.Round(r*(1+rng.NormFloat64()*estimateNoise)))
	}
	s[model.StatRoutes] = r
}

func ppr(s map[model.StatField]float64) float64 {
	return s[model.StatReceptions]*pprReception +
		(s[model.StatReceivingYards]+s[model.StatRushingYards])*pprYardScale +
		(s[model.StatReceivingTDs]+s[model.StatRushingTDs])*pprTD
}
