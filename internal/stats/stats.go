// Package stats derives summary statistics from a batch of game outcomes.
package stats

import "math"

// EloEstimate is an Elo difference with its 95% confidence interval
type EloEstimate struct {
	Lower float64
	Mu    float64
	Upper float64
}

// Summary describes a batch from the first player's point of view
type Summary struct {
	Games        int
	CircleRate   float64
	CrossRate    float64
	DrawRate     float64
	AverageMoves float64
	Elo          EloEstimate // circle relative to cross
	LOS          float64     // likelihood that circle is the stronger side
}

// Summarize computes the summary of circle wins, cross wins and draws
func Summarize(circle, cross, draw int, moves int64) Summary {
	n := circle + cross + draw
	s := Summary{Games: n}
	if n == 0 {
		s.LOS = 0.5
		return s
	}

	N := float64(n)
	s.CircleRate = float64(circle) / N
	s.CrossRate = float64(cross) / N
	s.DrawRate = float64(draw) / N
	s.AverageMoves = float64(moves) / N
	s.Elo.Lower, s.Elo.Mu, s.Elo.Upper = Elo(circle, draw, cross)
	s.LOS = LOS(circle, cross)
	return s
}

// Elo returns the likely elo of the target player along with its p < 0.05
// lower and upper bounds, from its wins, draws and losses.
func Elo(ws, ds, ls int) (muMin float64, mu float64, muMax float64) {
	N := float64(ws + ds + ls) // total number of games

	if N == 0 {
		return 0, 0, 0
	}

	w := float64(ws) / N // measured win probability
	d := float64(ds) / N // measured draw probability
	l := float64(ls) / N // measured loss probability

	// empirical mean score
	mu = w + d/2

	// standard error of the mean score
	sigma := math.Sqrt(w*math.Pow(1-mu, 2)+d*math.Pow(0.5-mu, 2)+l*math.Pow(0-mu, 2)) / math.Sqrt(N)

	muMin = mu + phiInv(0.025)*sigma
	muMax = mu + phiInv(0.975)*sigma

	return clampElo(muMin), clampElo(mu), clampElo(muMax)
}

// LOS returns the likelihood of superiority of the side with ws wins over
// the side with ls wins. Draws carry no information.
func LOS(ws, ls int) float64 {
	if ws+ls == 0 {
		return 0.5
	}
	return 0.5 * (1 + math.Erf(float64(ws-ls)/math.Sqrt(2*float64(ws+ls))))
}

// scoreEpsilon bounds scores away from 0 and 1, where the Elo curve diverges.
// It caps the reported difference at about ±2400.
const scoreEpsilon = 1e-6

// MaxElo is the Elo difference reported for a perfect score.
var MaxElo = clampElo(1)

// clampElo converts a mean score to Elo. It is monotonic, so ordered scores
// give ordered Elo values.
func clampElo(x float64) float64 {
	x = math.Min(math.Max(x, scoreEpsilon), 1-scoreEpsilon)
	return 400 * math.Log10(x/(1-x))
}

func phiInv(p float64) float64 {
	return math.Sqrt2 * math.Erfinv(2*p-1)
}
