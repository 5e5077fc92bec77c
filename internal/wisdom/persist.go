package wisdom

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// #region document

// InsightDoc is the serialized form of one insight. Timestamps are
// Unix seconds.
type InsightDoc struct {
	ID                    string   `json:"id"`
	Content               string   `json:"content"`
	Timestamp             float64  `json:"timestamp"`
	DepthScore            float64  `json:"depth_score"`
	BreadthScore          float64  `json:"breadth_score"`
	ApplicabilityScore    float64  `json:"applicability_score"`
	CoherenceContribution float64  `json:"coherence_contribution"`
	RelatedDomains        []string `json:"related_domains"`
}

// BeliefUpdateDoc is the serialized form of one belief revision.
type BeliefUpdateDoc struct {
	ID               string  `json:"id"`
	Timestamp        float64 `json:"timestamp"`
	PriorBelief      string  `json:"prior_belief"`
	UpdatedBelief    string  `json:"updated_belief"`
	Evidence         string  `json:"evidence"`
	ConfidenceChange float64 `json:"confidence_change"`
	CoherenceImpact  float64 `json:"coherence_impact"`
}

// ScoresDoc mirrors Scores with stable JSON names.
type ScoresDoc struct {
	Depth         float64 `json:"depth"`
	Breadth       float64 `json:"breadth"`
	Applicability float64 `json:"applicability"`
	Coherence     float64 `json:"coherence"`
	Adaptability  float64 `json:"adaptability"`
	Composite     float64 `json:"composite"`
}

// MetricsDoc is an informational summary embedded in saved documents.
// Loads ignore it; everything in it is derived from the raw logs.
type MetricsDoc struct {
	WisdomScores           ScoresDoc `json:"wisdom_scores"`
	GrowthRatePerHour      float64   `json:"growth_rate_per_hour"`
	TotalInsights          int       `json:"total_insights"`
	TotalBeliefUpdates     int       `json:"total_belief_updates"`
	DomainsExplored        int       `json:"domains_explored"`
	CrossDomainConnections int       `json:"cross_domain_connections"`
	CurrentCoherence       float64   `json:"current_coherence"`
	EvidenceIntegration    float64   `json:"evidence_integration"`
}

// Document is the portable serialized form of an aggregator. The raw
// insight and belief-update logs are authoritative; coherence history,
// domain connections, evidence integration and score snapshots are
// rebuilt from them on load.
type Document struct {
	Insights        []InsightDoc       `json:"insights"`
	BeliefUpdates   []BeliefUpdateDoc  `json:"belief_updates"`
	DomainKnowledge map[string]float64 `json:"domain_knowledge"`
	CurrentMetrics  MetricsDoc         `json:"current_metrics"`
}

// #endregion

// #region save

// Doc captures the aggregator as a serializable document.
func (a *Aggregator) Doc() Document {
	a.mu.Lock()
	defer a.mu.Unlock()

	doc := Document{
		Insights:        make([]InsightDoc, 0, len(a.insights)),
		BeliefUpdates:   make([]BeliefUpdateDoc, 0, len(a.updates)),
		DomainKnowledge: make(map[string]float64, len(a.domainKnowledge)),
	}
	for _, ins := range a.insights {
		doc.Insights = append(doc.Insights, InsightDoc{
			ID:                    ins.ID,
			Content:               ins.Content,
			Timestamp:             unixSeconds(ins.Timestamp),
			DepthScore:            ins.DepthScore,
			BreadthScore:          ins.BreadthScore,
			ApplicabilityScore:    ins.ApplicabilityScore,
			CoherenceContribution: ins.CoherenceContribution,
			RelatedDomains:        append([]string(nil), ins.RelatedDomains...),
		})
	}
	for _, up := range a.updates {
		doc.BeliefUpdates = append(doc.BeliefUpdates, BeliefUpdateDoc{
			ID:               up.ID,
			Timestamp:        unixSeconds(up.Timestamp),
			PriorBelief:      up.PriorBelief,
			UpdatedBelief:    up.UpdatedBelief,
			Evidence:         up.Evidence,
			ConfidenceChange: up.ConfidenceChange,
			CoherenceImpact:  up.CoherenceImpact,
		})
	}
	for domain, k := range a.domainKnowledge {
		doc.DomainKnowledge[domain] = k
	}

	scores := a.scoresLocked()
	doc.CurrentMetrics = MetricsDoc{
		WisdomScores: ScoresDoc{
			Depth:         scores.Depth,
			Breadth:       scores.Breadth,
			Applicability: scores.Applicability,
			Coherence:     scores.Coherence,
			Adaptability:  scores.Adaptability,
			Composite:     scores.Composite,
		},
		GrowthRatePerHour:      a.growthRateLocked(time.Hour),
		TotalInsights:          len(a.insights),
		TotalBeliefUpdates:     len(a.updates),
		DomainsExplored:        len(a.domainKnowledge),
		CrossDomainConnections: len(a.connections),
		CurrentCoherence:       a.coherence,
		EvidenceIntegration:    a.evidence,
	}
	return doc
}

// SaveFile writes the aggregator document as indented JSON.
func (a *Aggregator) SaveFile(path string) error {
	data, err := json.MarshalIndent(a.Doc(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal wisdom doc: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// #endregion

// #region load

// FromDoc rebuilds an aggregator by replaying the document's insight
// log and then its belief-update log through the live recording path,
// so coherence history, domain connections, the evidence-integration
// average and score snapshots all match an aggregator that saw the
// same records directly. Saved domain knowledge is restored last and
// wins over the replayed values.
func FromDoc(doc Document, cfg Config) *Aggregator {
	a := New(cfg)

	for _, d := range doc.Insights {
		a.applyInsight(Insight{
			ID:                    d.ID,
			Content:               d.Content,
			Timestamp:             timeFromUnix(d.Timestamp),
			DepthScore:            d.DepthScore,
			BreadthScore:          d.BreadthScore,
			ApplicabilityScore:    d.ApplicabilityScore,
			CoherenceContribution: d.CoherenceContribution,
			RelatedDomains:        append([]string(nil), d.RelatedDomains...),
		})
	}
	for _, d := range doc.BeliefUpdates {
		a.applyUpdate(BeliefUpdate{
			ID:               d.ID,
			Timestamp:        timeFromUnix(d.Timestamp),
			PriorBelief:      d.PriorBelief,
			UpdatedBelief:    d.UpdatedBelief,
			Evidence:         d.Evidence,
			ConfidenceChange: d.ConfidenceChange,
			CoherenceImpact:  d.CoherenceImpact,
		})
	}

	if doc.DomainKnowledge != nil {
		a.domainKnowledge = make(map[string]float64, len(doc.DomainKnowledge))
		for domain, k := range doc.DomainKnowledge {
			a.domainKnowledge[domain] = k
		}
	}
	return a
}

// LoadFile reads an aggregator document and rebuilds the aggregator.
func LoadFile(path string, cfg Config) (*Aggregator, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal wisdom doc: %w", err)
	}
	return FromDoc(doc, cfg), nil
}

// #endregion

func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}

func timeFromUnix(sec float64) time.Time {
	return time.Unix(0, int64(sec*1e9))
}
