// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package evaluation

// RecallAtK is the fraction of relevant URLs that appear in the top k
// predictions. No relevant URLs yields 0.
func RecallAtK(relevant map[string]bool, predicted []string, k int) float64 {
	if len(relevant) == 0 {
		return 0.0
	}
	return float64(hitsAtK(relevant, predicted, k)) / float64(len(relevant))
}

// PrecisionAtK is the fraction of the top k predictions that are
// relevant. The divisor is k itself, not the number of predictions, so
// short prediction lists are penalized.
func PrecisionAtK(relevant map[string]bool, predicted []string, k int) float64 {
	if k <= 0 {
		return 0.0
	}
	return float64(hitsAtK(relevant, predicted, k)) / float64(k)
}

// MeanRecallAtK averages RecallAtK over every labeled query. Queries
// missing from predictions count as zero.
func MeanRecallAtK(relevantByQuery map[string]map[string]bool, predictedByQuery map[string][]string, k int) float64 {
	if len(relevantByQuery) == 0 {
		return 0.0
	}
	var sum float64
	for query, relevant := range relevantByQuery {
		sum += RecallAtK(relevant, predictedByQuery[query], k)
	}
	return sum / float64(len(relevantByQuery))
}

// MeanPrecisionAtK averages PrecisionAtK over every labeled query.
func MeanPrecisionAtK(relevantByQuery map[string]map[string]bool, predictedByQuery map[string][]string, k int) float64 {
	if len(relevantByQuery) == 0 {
		return 0.0
	}
	var sum float64
	for query, relevant := range relevantByQuery {
		sum += PrecisionAtK(relevant, predictedByQuery[query], k)
	}
	return sum / float64(len(relevantByQuery))
}

func hitsAtK(relevant map[string]bool, predicted []string, k int) int {
	if k > len(predicted) {
		k = len(predicted)
	}
	// Count distinct hits; a URL predicted twice is one hit.
	counted := make(map[string]bool, k)
	hits := 0
	for _, url := range predicted[:k] {
		if relevant[url] && !counted[url] {
			counted[url] = true
			hits++
		}
	}
	return hits
}
