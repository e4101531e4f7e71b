// Package analytics computes the derived views the dashboard renders from a
// filtered dataset slice: per-source metric cards, daily and cumulative
// returns, pairwise close-price correlation, and descriptive statistics.
//
// Every function here is a stateless pure function of its inputs. Nothing is
// cached or persisted; derived values are rebuilt per request and discarded
// after rendering.
package analytics
