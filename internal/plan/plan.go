package plan

// DailySummary holds the aggregate macro totals for one day.
type DailySummary struct {
	Kcal     int `json:"kcal"`
	Proteins int `json:"proteins"`
	Fats     int `json:"fats"`
	Carbs    int `json:"carbs"`
}

// MealSummary holds the calories and macro grams for a single meal.
type MealSummary struct {
	Kcal int `json:"kcal"`
	P    int `json:"p"`
	F    int `json:"f"`
	C    int `json:"c"`
}

// Meal is one meal of a day plan. Under lenient parsing absent fields
// default to the empty string.
type Meal struct {
	Name        string      `json:"name"`
	Ingredients string      `json:"ingredients"`
	Preparation string      `json:"preparation"`
	Summary     MealSummary `json:"summary"`
}

// DayPlan is one day's daily summary plus its meals.
type DayPlan struct {
	DailySummary DailySummary `json:"daily_summary"`
	Meals        []Meal       `json:"meals"`
}

// Day is one entry of a multi-day plan.
type Day struct {
	DayNumber int     `json:"day_number"`
	Name      string  `json:"name,omitempty"`
	Plan      DayPlan `json:"plan_content"`
}

// MultiDaySummary holds plan-wide aggregates for a multi-day plan.
type MultiDaySummary struct {
	NumberOfDays    int `json:"number_of_days"`
	AverageKcal     int `json:"average_kcal"`
	AverageProteins int `json:"average_proteins"`
	AverageFats     int `json:"average_fats"`
	AverageCarbs    int `json:"average_carbs"`
}

// MultiDayPlan is an ordered collection of day plans plus plan-wide averages.
// Days are kept sorted ascending by DayNumber with unique day numbers.
type MultiDayPlan struct {
	Days    []Day           `json:"days"`
	Summary MultiDaySummary `json:"summary"`
}
