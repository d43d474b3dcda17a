package services

import (
	"errors"
	"fmt"
	"time"

	"league-scheduler/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// seriesWinTarget is the number of wins that clinches a best-of-five.
const seriesWinTarget = 3

// MatchWinnerID resolves a knockout match strictly: full-time score first,
// penalty shootout as the tiebreak. A drawn match without penalties cannot
// feed the next round.
func MatchWinnerID(m *models.Match) (string, error) {
	if !m.HasResult() {
		return "", fmt.Errorf("match %s has no result: %w", m.ID, ErrPrerequisiteNotMet)
	}
	if *m.HomeScore > *m.AwayScore {
		return m.HomeTeamID, nil
	}
	if *m.AwayScore > *m.HomeScore {
		return m.AwayTeamID, nil
	}
	if m.HasPenalties() {
		if *m.HomePens > *m.AwayPens {
			return m.HomeTeamID, nil
		}
		if *m.AwayPens > *m.HomePens {
			return m.AwayTeamID, nil
		}
	}
	return "", fmt.Errorf("match %s is drawn without a shootout: %w", m.ID, ErrPrerequisiteNotMet)
}

// matchWinnerOrHome resolves like MatchWinnerID but falls back to the home
// side for a dead-rubber draw. Used only when snapshotting finished
// competitions, never to build a next round.
func matchWinnerOrHome(m *models.Match) (string, error) {
	id, err := MatchWinnerID(m)
	if err == nil {
		return id, nil
	}
	if !m.HasResult() {
		return "", err
	}
	return m.HomeTeamID, nil
}

// CupFinalTeams derives the final pairing from two played semi-finals. The
// first semi's winner hosts the final.
func CupFinalTeams(semis []models.Match) (homeID, awayID string, err error) {
	if len(semis) != 2 {
		return "", "", fmt.Errorf("expected 2 semi-finals, got %d: %w", len(semis), ErrPrerequisiteNotMet)
	}
	for i := range semis {
		if !semis[i].Played {
			return "", "", fmt.Errorf("semi-final %s not played yet: %w", semis[i].ID, ErrPrerequisiteNotMet)
		}
	}
	homeID, err = MatchWinnerID(&semis[0])
	if err != nil {
		return "", "", err
	}
	awayID, err = MatchWinnerID(&semis[1])
	if err != nil {
		return "", "", err
	}
	return homeID, awayID, nil
}

// SeriesWinnerID returns the team holding three series wins, or "" while the
// series is still live. Unplayed games are skipped; drawn games count for
// nobody.
func SeriesWinnerID(games []models.Match) string {
	wins := map[string]int{}
	for i := range games {
		g := &games[i]
		if !g.Played || !g.HasResult() {
			continue
		}
		id, err := MatchWinnerID(g)
		if err != nil {
			continue
		}
		wins[id]++
		if wins[id] >= seriesWinTarget {
			return id
		}
	}
	return ""
}

// ProgressionService advances knockout competitions as results land.
type ProgressionService struct {
	DB *gorm.DB
}

func NewProgressionService(db *gorm.DB) *ProgressionService {
	return &ProgressionService{DB: db}
}

// MaybeCreateCupFinal checks the cup bracket inside the caller's transaction
// and creates the final once both semi-finals are played. Idempotent: an
// existing final short-circuits, so re-entered semi results never duplicate
// the fixture.
func (s *ProgressionService) MaybeCreateCupFinal(tx *gorm.DB) error {
	var finalCount int64
	if err := tx.Model(&models.Match{}).
		Where("competition_tag = ? AND stage = ?", models.CompetitionCup, models.StageFinal).
		Count(&finalCount).Error; err != nil {
		return err
	}
	if finalCount > 0 {
		return nil
	}

	var semis []models.Match
	if err := tx.Where("competition_tag = ? AND stage = ?", models.CompetitionCup, models.StageSemiFinal).
		Order("kickoff_at ASC").
		Find(&semis).Error; err != nil {
		return err
	}
	if len(semis) != 2 || !semis[0].Played || !semis[1].Played {
		return nil
	}

	homeID, awayID, err := CupFinalTeams(semis)
	if err != nil {
		// A drawn semi without a shootout stays pending until the result
		// is corrected; nothing to create yet.
		if errors.Is(err, ErrPrerequisiteNotMet) {
			return nil
		}
		return err
	}

	kickoff := semis[1].KickoffAt.AddDate(0, 0, 7)
	kickoff = time.Date(kickoff.Year(), kickoff.Month(), kickoff.Day(),
		kickoffSlots[len(kickoffSlots)-1].hour, kickoffSlots[len(kickoffSlots)-1].min, 0, 0, kickoff.Location())

	final := models.Match{
		ID:             uuid.NewString(),
		CompetitionTag: models.CompetitionCup,
		Stage:          models.StageFinal,
		HomeTeamID:     homeID,
		AwayTeamID:     awayID,
		KickoffAt:      kickoff,
	}
	return tx.Create(&final).Error
}

// LeagueWinnerID resolves the league champion from the current table. The
// season must be fully played out.
func (s *ProgressionService) LeagueWinnerID(tx *gorm.DB) (string, error) {
	var pending int64
	if err := tx.Model(&models.Match{}).
		Where("competition_tag = ? AND played = ?", models.CompetitionLeague, false).
		Count(&pending).Error; err != nil {
		return "", err
	}
	if pending > 0 {
		return "", fmt.Errorf("%d league matches unplayed: %w", pending, ErrPrerequisiteNotMet)
	}

	var teams []models.Team
	if err := tx.Where("competitions LIKE ?", "%"+models.CompetitionLeague+"%").Find(&teams).Error; err != nil {
		return "", err
	}
	if len(teams) == 0 {
		return "", fmt.Errorf("no league teams: %w", ErrPrerequisiteNotMet)
	}
	SortStandings(teams)
	return teams[0].ID, nil
}

// CupWinnerID resolves the cup from its played final.
func (s *ProgressionService) CupWinnerID(tx *gorm.DB) (winnerID, runnerUpID string, err error) {
	var final models.Match
	err = tx.Where("competition_tag = ? AND stage = ? AND played = ?",
		models.CompetitionCup, models.StageFinal, true).
		First(&final).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", "", fmt.Errorf("cup final not played: %w", ErrPrerequisiteNotMet)
	}
	if err != nil {
		return "", "", err
	}
	winnerID, err = MatchWinnerID(&final)
	if err != nil {
		return "", "", err
	}
	if winnerID == final.HomeTeamID {
		runnerUpID = final.AwayTeamID
	} else {
		runnerUpID = final.HomeTeamID
	}
	return winnerID, runnerUpID, nil
}

// SuperCupWinnerID resolves the one-off super cup; a dead draw falls to the
// home side so an archive is never blocked by a forgotten shootout.
func (s *ProgressionService) SuperCupWinnerID(tx *gorm.DB) (string, error) {
	var match models.Match
	err := tx.Where("competition_tag = ? AND played = ?", models.CompetitionSuperCup, true).
		First(&match).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("super cup not played: %w", ErrPrerequisiteNotMet)
	}
	if err != nil {
		return "", err
	}
	return matchWinnerOrHome(&match)
}

// CurrentSeriesWinnerID resolves the best-of-five if it has been clinched.
func (s *ProgressionService) CurrentSeriesWinnerID(tx *gorm.DB) (string, error) {
	var games []models.Match
	if err := tx.Where("competition_tag = ?", models.CompetitionSeries).
		Order("kickoff_at ASC").
		Find(&games).Error; err != nil {
		return "", err
	}
	if len(games) == 0 {
		return "", fmt.Errorf("no series fixtures: %w", ErrPrerequisiteNotMet)
	}
	winner := SeriesWinnerID(games)
	if winner == "" {
		return "", fmt.Errorf("series not clinched: %w", ErrPrerequisiteNotMet)
	}
	return winner, nil
}
