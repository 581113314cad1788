package prediction

// Health is the GET /healthz body.
type Health struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// ChampionInfo is one feature-map entry. The map is keyed by champion id.
type ChampionInfo struct {
	Key        int      `json:"key"`
	Name       string   `json:"name"`
	Roles      []string `json:"roles"`
	DamageType string   `json:"damage_type,omitempty"`
	Mobility   int      `json:"mobility,omitempty"`
	Engage     int      `json:"engage,omitempty"`
	CC         int      `json:"cc,omitempty"`
	Sustain    int      `json:"sustain,omitempty"`
}

// Factor is one ranked explanation entry. Impact is signed: positive favors blue.
type Factor struct {
	Name        string  `json:"name"`
	Impact      float64 `json:"impact"`
	Description string  `json:"description"`
}

// Response is the POST /predict/draft body returned by the model service.
type Response struct {
	BlueWinProbability float64  `json:"blue_win_probability"`
	RedWinProbability  float64  `json:"red_win_probability"`
	Confidence         float64  `json:"confidence"`
	Factors            []Factor `json:"factors"`
	ModelVersion       string   `json:"model_version"`
	EloGroup           string   `json:"elo_group,omitempty"`
	Patch              string   `json:"patch,omitempty"`
}
