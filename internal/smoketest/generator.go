package smoketest

import (
	"crypto/rand"
	"math/big"
)

// Constants for random score generation.
const (
	randomFloatDivisor = 1000000
	profileDivisor     = 6
)

// Constants for score profile ranges, expressed as fractions of the
// criterion weight.
const (
	averageMin   = 0.3
	averageRange = 0.4
	strongMin    = 0.7
	strongRange  = 0.2
	weakMin      = 0.05
	weakRange    = 0.25
	eliteMin     = 0.9
	eliteRange   = 0.1
	poorMin      = 0.0
	poorRange    = 0.1
	wideMin      = 0.0
	wideRange    = 1.0
)

// Score profile cases.
const (
	caseAverage = 0
	caseStrong  = 1
	caseWeak    = 2
	caseElite   = 3
	casePoor    = 4
	caseWide    = 5
)

// randomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func randomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// variedScore produces a score within [0, weight] drawn from a mixed
// distribution, so standings end up with realistic spread instead of a
// uniform smear.
func variedScore(weight float64) float64 {
	profile, _ := rand.Int(rand.Reader, big.NewInt(profileDivisor))
	switch profile.Int64() {
	case caseAverage:
		return (averageMin + randomFloat()*averageRange) * weight
	case caseStrong:
		return (strongMin + randomFloat()*strongRange) * weight
	case caseWeak:
		return (weakMin + randomFloat()*weakRange) * weight
	case caseElite:
		return (eliteMin + randomFloat()*eliteRange) * weight
	case casePoor:
		return (poorMin + randomFloat()*poorRange) * weight
	case caseWide:
		return (wideMin + randomFloat()*wideRange) * weight
	default:
		return (wideMin + randomFloat()*wideRange) * weight
	}
}

// scoreJob is one judge's pending scorecard for one submission.
type scoreJob struct {
	judgeID      string
	submissionID string
	payload      submitScoresRequest
}

// generateJobs builds one scorecard per (judge, submission) pair with
// varied values per criterion.
func generateJobs(env *environment, cfg *Config) []scoreJob {
	jobs := make([]scoreJob, 0, len(env.submissions)*cfg.Judges)
	for _, submissionID := range env.submissions {
		for _, judgeID := range env.judges {
			items := make([]scoreItemRequest, len(env.criteria))
			for i, criterion := range env.criteria {
				items[i] = scoreItemRequest{
					CriterionID: criterion.id,
					Value:       variedScore(criterion.weight),
				}
			}
			jobs = append(jobs, scoreJob{
				judgeID:      judgeID,
				submissionID: submissionID,
				payload:      submitScoresRequest{JudgeID: judgeID, Scores: items},
			})
		}
	}
	return jobs
}
