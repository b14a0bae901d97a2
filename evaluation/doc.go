// Package evaluation measures recommendation quality against labeled
// query/assessment pairs using Recall@K and Precision@K.
package evaluation
