package universe

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/haoyuan-z/trigate/internal/contracts"
	"github.com/haoyuan-z/trigate/internal/strategyconfig"
	"github.com/haoyuan-z/trigate/pkg/logger"
)

// Builder constructs the instrument set that enters the gate fan-out.
// SSOT: universe filtering happens only here.
type Builder struct {
	provider contracts.DataProvider
	cfg      strategyconfig.Universe
	logger   *logger.Logger
}

// NewBuilder creates a new universe builder
func NewBuilder(provider contracts.DataProvider, cfg *strategyconfig.Config, log *logger.Logger) *Builder {
	return &Builder{
		provider: provider,
		cfg:      cfg.Universe,
		logger:   log.WithComponent("universe"),
	}
}

// Build fetches the full instrument list and applies the configured
// exclusion filters, recording a reason per excluded code.
func (b *Builder) Build(ctx context.Context) (*contracts.Universe, error) {
	instruments, err := b.provider.FetchInstrumentList(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch instrument list: %w", err)
	}

	universe := &contracts.Universe{
		Date:        time.Now(),
		Instruments: make([]contracts.Instrument, 0, len(instruments)),
		Excluded:    make(map[string]string),
	}

	for _, inst := range instruments {
		if b.cfg.MaxInstruments > 0 && len(universe.Instruments) >= b.cfg.MaxInstruments {
			break
		}
		if reason := b.checkExclusion(inst); reason != "" {
			universe.Excluded[inst.Code] = reason
			continue
		}
		universe.Instruments = append(universe.Instruments, inst)
	}
	universe.TotalCount = len(universe.Instruments)

	b.logger.WithFields(map[string]interface{}{
		"total":    len(instruments),
		"included": universe.TotalCount,
		"excluded": len(universe.Excluded),
	}).Info("Built universe")

	return universe, nil
}

// checkExclusion returns a non-empty reason when the instrument must
// not be screened
func (b *Builder) checkExclusion(inst contracts.Instrument) string {
	if b.cfg.ExcludeSTInstruments && isST(inst.Name) {
		return "special treatment instrument"
	}
	if inst.Code == "" {
		return "missing code"
	}
	if b.cfg.MinListingAgeDays > 0 && !inst.ListedAt.IsZero() {
		age := int(time.Since(inst.ListedAt).Hours() / 24)
		if age < b.cfg.MinListingAgeDays {
			return fmt.Sprintf("listed %d days ago, minimum %d", age, b.cfg.MinListingAgeDays)
		}
	}
	return ""
}

// isST detects special-treatment and delisting-risk markers in the
// display name. ST names carry the marker as a prefix, optionally
// behind a star.
func isST(name string) bool {
	upper := strings.ToUpper(strings.TrimSpace(name))
	upper = strings.TrimPrefix(upper, "*")
	return strings.HasPrefix(upper, "ST") || strings.Contains(upper, "退")
}
