package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"hr-alerter/internal/scrape/util"
	"hr-alerter/internal/store"
)

// LinkStore is what the linking pass reads and writes.
type LinkStore interface {
	DistinctRawCompanyNames(ctx context.Context) ([]string, error)
	InsertCompanyIgnore(ctx context.Context, name string) (bool, error)
	UnlinkedPostings(ctx context.Context) ([]store.UnlinkedPosting, error)
	CompanyIDByName(ctx context.Context, name string) (int64, error)
	LinkPosting(ctx context.Context, postingID, companyID int64) (bool, error)
}

type LinkStats struct {
	RawNames         int `json:"raw_names"`
	CompaniesCreated int `json:"companies_created"`
	PostingsLinked   int `json:"postings_linked"`
	Unmatched        int `json:"unmatched"`
}

// Link creates a company for every normalized raw name and points each
// unlinked posting at it. Running it again changes nothing.
func Link(ctx context.Context, db LinkStore) (LinkStats, error) {
	var st LinkStats

	names, err := db.DistinctRawCompanyNames(ctx)
	if err != nil {
		return st, fmt.Errorf("list raw company names: %w", err)
	}
	st.RawNames = len(names)

	for _, raw := range names {
		name := util.NormalizeCompanyName(raw)
		if strings.TrimSpace(name) == "" {
			continue
		}
		created, err := db.InsertCompanyIgnore(ctx, name)
		if err != nil {
			return st, fmt.Errorf("insert company %q: %w", name, err)
		}
		if created {
			st.CompaniesCreated++
		}
	}

	unlinked, err := db.UnlinkedPostings(ctx)
	if err != nil {
		return st, fmt.Errorf("list unlinked postings: %w", err)
	}

	ids := map[string]int64{}
	for _, p := range unlinked {
		name := util.NormalizeCompanyName(p.CompanyNameRaw)
		id, ok := ids[name]
		if !ok {
			id, err = db.CompanyIDByName(ctx, name)
			if errors.Is(err, store.ErrNotFound) {
				st.Unmatched++
				continue
			}
			if err != nil {
				return st, err
			}
			ids[name] = id
		}
		linked, err := db.LinkPosting(ctx, p.ID, id)
		if err != nil {
			return st, fmt.Errorf("link posting %d: %w", p.ID, err)
		}
		if linked {
			st.PostingsLinked++
		}
	}

	log.Info().
		Int("raw_names", st.RawNames).
		Int("companies_created", st.CompaniesCreated).
		Int("postings_linked", st.PostingsLinked).
		Msg("linking pass done")
	return st, nil
}
