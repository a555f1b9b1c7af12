package types

const (
	ANSWER_REWARD = 1
	SKIP_COST     = 10
	SHUFFLE_COST  = 5
	REVEAL_COST   = 25

	ANSWER_OPTION_COUNT      = 4
	NOTIFICATION_WINDOW_DAYS = 2
)

type EconomyConfig struct {
	AnswerReward int64
	SkipCost     int64
	ShuffleCost  int64
	RevealCost   int64
}

func GetEconomyConfig() EconomyConfig {
	return EconomyConfig{
		AnswerReward: ANSWER_REWARD,
		SkipCost:     SKIP_COST,
		ShuffleCost:  SHUFFLE_COST,
		RevealCost:   REVEAL_COST,
	}
}
