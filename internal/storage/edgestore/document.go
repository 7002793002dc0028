package edgestore

import (
	"sort"
	"strconv"
	"time"

	"github.com/maxaizer/ghost-detector/internal/entities"
	"github.com/maxaizer/ghost-detector/internal/stats"
	"github.com/samber/lo"
)

// windowSize bounds how many job searches the document retains. The
// backing store caps item size, so only the most recent searches are
// kept; key factors and metadata whose parent aged out are pruned with
// it. Company rollups stay, frozen at their last recompute.
const windowSize = 100

type documentStats struct {
	TotalAnalyses int       `json:"total_analyses"`
	LastUpdated   time.Time `json:"last_updated"`
}

// document is the whole dataset as stored remotely: sibling maps keyed
// by entity id plus a small summary. Mutations happen on a local copy
// and the entire document is written back in one call.
type document struct {
	JobSearches     map[string]entities.JobSearch       `json:"job_searches"`
	KeyFactors      map[string]entities.KeyFactor       `json:"key_factors"`
	ParsingMetadata map[string]entities.ParsingMetadata `json:"parsing_metadata"`
	Companies       map[string]entities.Company         `json:"companies"`
	Stats           documentStats                       `json:"stats"`
}

func newDocument() *document {
	return &document{
		JobSearches:     map[string]entities.JobSearch{},
		KeyFactors:      map[string]entities.KeyFactor{},
		ParsingMetadata: map[string]entities.ParsingMetadata{},
		Companies:       map[string]entities.Company{},
		Stats:           documentStats{LastUpdated: time.Now()},
	}
}

func docKey(id int64) string {
	return strconv.FormatInt(id, 10)
}

func (d *document) findByURL(url string) (entities.JobSearch, bool) {
	for _, search := range d.JobSearches {
		if search.URL == url {
			return search, true
		}
	}
	return entities.JobSearch{}, false
}

// nextID assigns unix-millisecond ids, bumping past collisions so two
// inserts within the same millisecond stay distinct.
func (d *document) nextID(now time.Time) int64 {
	id := now.UnixMilli()
	for {
		if _, taken := d.JobSearches[docKey(id)]; !taken {
			return id
		}
		id++
	}
}

func (d *document) insert(search entities.JobSearch, factors []entities.KeyFactor,
	metadata *entities.ParsingMetadata, now time.Time) int64 {

	id := d.nextID(now)
	search.ID = id
	search.CreatedAt = now
	search.UpdatedAt = now
	if search.AnalysisDate.IsZero() {
		search.AnalysisDate = now
	}
	d.JobSearches[docKey(id)] = search

	for i, factor := range factors {
		factor.ID = id*100 + int64(i)
		factor.SearchID = id
		factor.CreatedAt = now
		d.KeyFactors[docKey(factor.ID)] = factor
	}

	if metadata != nil {
		metadata.ID = id
		metadata.SearchID = id
		if metadata.ExtractionTimestamp.IsZero() {
			metadata.ExtractionTimestamp = now
		}
		d.ParsingMetadata[docKey(id)] = *metadata
	}

	for _, company := range d.prune() {
		if company != search.Company {
			d.recomputeCompany(company, now)
		}
	}
	d.recomputeCompany(search.Company, now)
	d.touch(now)
	return id
}

func (d *document) delete(id int64, now time.Time) bool {
	search, ok := d.JobSearches[docKey(id)]
	if !ok {
		return false
	}

	delete(d.JobSearches, docKey(id))
	d.KeyFactors = lo.OmitBy(d.KeyFactors, func(_ string, factor entities.KeyFactor) bool {
		return factor.SearchID == id
	})
	delete(d.ParsingMetadata, docKey(id))

	d.recomputeCompany(search.Company, now)
	d.touch(now)
	return true
}

func (d *document) deleteOlderThan(cutoff time.Time, now time.Time) int64 {
	var removed int64
	for _, search := range lo.Values(d.JobSearches) {
		if search.AnalysisDate.Before(cutoff) && d.delete(search.ID, now) {
			removed++
		}
	}
	return removed
}

// prune drops the oldest searches beyond the retention window along
// with their orphaned children. Returns the companies that lost posts
// but still have some in the window; their rollups must be recomputed
// so aggregates keep matching the retained records. Companies that
// lost every post are not returned and keep their last rollup.
func (d *document) prune() []string {
	if len(d.JobSearches) <= windowSize {
		return nil
	}

	searches := lo.Values(d.JobSearches)
	sort.Slice(searches, func(i, j int) bool {
		if !searches[i].AnalysisDate.Equal(searches[j].AnalysisDate) {
			return searches[i].AnalysisDate.After(searches[j].AnalysisDate)
		}
		return searches[i].ID > searches[j].ID
	})

	evicted := map[string]struct{}{}
	for _, expired := range searches[windowSize:] {
		delete(d.JobSearches, docKey(expired.ID))
		delete(d.ParsingMetadata, docKey(expired.ID))
		evicted[expired.Company] = struct{}{}
	}

	retained := lo.SliceToMap(searches[:windowSize], func(s entities.JobSearch) (int64, struct{}) {
		return s.ID, struct{}{}
	})
	d.KeyFactors = lo.OmitBy(d.KeyFactors, func(_ string, factor entities.KeyFactor) bool {
		_, ok := retained[factor.SearchID]
		return !ok
	})

	var affected []string
	for company := range evicted {
		if len(d.searchesFor(company)) > 0 {
			affected = append(affected, company)
		}
	}
	return affected
}

// recomputeCompany rebuilds one rollup from the retained window. A
// company whose posts all aged out keeps its last rollup as a
// historical record; one whose last post was explicitly deleted is
// removed.
func (d *document) recomputeCompany(name string, now time.Time) {
	company := stats.ComputeCompany(name, d.searchesFor(name), now)
	if company == nil {
		delete(d.Companies, name)
		return
	}

	if existing, ok := d.Companies[name]; ok {
		company.ID = existing.ID
	} else {
		company.ID = now.UnixMilli()
	}
	d.Companies[name] = *company
}

func (d *document) searchesFor(company string) []entities.JobSearch {
	return lo.Filter(lo.Values(d.JobSearches), func(s entities.JobSearch, _ int) bool {
		return s.Company == company
	})
}

func (d *document) factorsFor(id int64) []entities.KeyFactor {
	factors := lo.Filter(lo.Values(d.KeyFactors), func(f entities.KeyFactor, _ int) bool {
		return f.SearchID == id
	})
	sort.Slice(factors, func(i, j int) bool { return factors[i].ID < factors[j].ID })
	return factors
}

func (d *document) touch(now time.Time) {
	d.Stats.TotalAnalyses = len(d.JobSearches)
	d.Stats.LastUpdated = now
}
