// Package insight obtains natural-language commentary on summary views from
// a generative-text provider. Every failure path degrades to a user-visible
// string for the affected view only; no insight failure ever aborts the
// remaining views or the upload.
package insight

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"mediascope/internal/summary"
)

// Fixed degradation strings shown in place of commentary.
const (
	MsgNotConfigured = "Gemini API key is not configured. Please set your API key to generate insights."
	MsgNoInsights    = "Could not generate insights for this chart."
)

const plainTextSuffix = " Present insights as plain text, without any markdown formatting like bolding or bullet points."

// Per-view instruction templates. %s receives the serialized view rows.
const (
	sentimentPrompt = "Given the following sentiment distribution from a media dataset: %s. Provide 3 key insights about the overall sentiment. Focus on the most prevalent sentiments and any notable imbalances. Also mention the dominant sentiment and why it is important." + plainTextSuffix
	trendPrompt     = "Analyze the following engagement data over time: %s. Describe the trend of engagements over the period. Are there any peaks, troughs, or consistent patterns? Give 3 key insights and highlight any significant spikes or drops in engagement." + plainTextSuffix
	platformPrompt  = "Based on the total engagements per platform: %s. What are the top platforms driving engagements? Are there any platforms significantly underperforming? Provide 3 key insights and identify top performing platforms." + plainTextSuffix
	mediaTypePrompt = "Given the distribution of media types: %s. What are the most common media types used? Is there a significant preference for certain types? Give 3 key insights and discuss the most prevalent media type." + plainTextSuffix
	locationsPrompt = "Here are the top locations by engagements: %s. What does this data tell us about geographical engagement? Are there specific regions that are highly active? Provide 3 key insights and point out the most engaged locations." + plainTextSuffix
	genericPrompt   = "Given the following aggregated media data: %s. Provide 3 key insights about what stands out." + plainTextSuffix
)

var promptByKey = map[string]string{
	summary.KeySentiment: sentimentPrompt,
	summary.KeyTrend:     trendPrompt,
	summary.KeyPlatform:  platformPrompt,
	summary.KeyMediaType: mediaTypePrompt,
	summary.KeyLocations: locationsPrompt,
}

// Requester obtains commentary for summary views, one blocking exchange per
// view, in view order. No batching, no retries, no caching.
type Requester struct {
	provider  Provider
	maxTokens int
}

// NewRequester creates a requester. A nil provider degrades every view to
// the configuration warning without network access.
func NewRequester(provider Provider, maxTokens int) *Requester {
	return &Requester{provider: provider, maxTokens: maxTokens}
}

// ForViews requests commentary for each view in order and returns it keyed
// by view key.
func (r *Requester) ForViews(ctx context.Context, views []summary.View) map[string]string {
	insights := make(map[string]string, len(views))
	for _, v := range views {
		insights[v.Key] = r.ForView(ctx, v)
	}
	return insights
}

// ForView returns commentary for one view, or a diagnostic string when the
// exchange cannot produce any.
func (r *Requester) ForView(ctx context.Context, v summary.View) string {
	if r.provider == nil || !r.provider.IsConfigured() {
		return MsgNotConfigured
	}

	text, err := r.provider.Generate(ctx, BuildPrompt(v), r.maxTokens)
	if err != nil {
		if errors.Is(err, ErrNoCandidates) {
			return MsgNoInsights
		}
		log.Printf("Insight request failed for %s: %v", v.Key, err)
		return fmt.Sprintf("Error calling Gemini API: %v. Check your API key and network.", err)
	}
	if strings.TrimSpace(text) == "" {
		return MsgNoInsights
	}
	return text
}

// BuildPrompt serializes the view rows as JSON records and applies the
// view's instruction template.
func BuildPrompt(v summary.View) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, row := range v.Rows {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "{%q: %q, %q: %d}", v.LabelName, row.Label, v.ValueName, row.Value)
	}
	b.WriteByte(']')

	tpl, ok := promptByKey[v.Key]
	if !ok {
		tpl = genericPrompt
	}
	return fmt.Sprintf(tpl, b.String())
}
