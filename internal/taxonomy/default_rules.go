package taxonomy

import "github.com/Veraticus/squeegee/internal/model"

// Labels that are computed rather than matched.
const (
	LabelOtherServices  = "Other_Services"
	LabelRegularClients = "Regular_Clients"
	LabelOneTimeClients = "One_Time_Clients"
	LabelCommercial     = "Commercial"
	LabelResidential    = "Residential"
)

// DefaultRules returns the built-in keyword tables.
func DefaultRules() Rules {
	return Rules{
		Services: RuleSet{
			Axis: model.AxisServiceCategories,
			Mode: MatchAll,
			Rules: []Rule{
				{Label: "Window_Cleaning", Terms: []string{"window", "glass", "skylight", "atrium", "solarium", "sun room"}},
				{Label: "Eaves_Cleaning", Terms: []string{"eaves", "gutter", "downspout", "down spout", "eavestrough"}},
				{Label: "Power_Washing", Terms: []string{"power", "pressure", "soft washing"}},
				{Label: "Screen_Services", Terms: []string{"screen"}},
				{Label: "Post_Construction", Terms: []string{"construction"}},
				{Label: "Light_Fixture", Terms: []string{"light fixture", "lighting"}},
			},
		},
		OtherServices: LabelOtherServices,
		Commercial: RuleSet{
			Axis:    model.AxisClientCategories,
			Mode:    MatchFirst,
			Default: LabelResidential,
			Rules: []Rule{
				{Label: LabelCommercial, Terms: []string{"Ltd", "Inc", "Limited", "Corporation", "Corp", "Company", "Co.", "Services"}},
			},
		},
		// Order matters: the first matching job wins.
		Jobs: RuleSet{
			Axis:    model.AxisJobCategories,
			Mode:    MatchFirst,
			Default: "Other_Maintenance",
			Rules: []Rule{
				{Label: "Window_Cleaning", Terms: []string{"window"}},
				{Label: "Light_Fixture_Cleaning", Terms: []string{"light fixture"}},
				{Label: "Eaves_Cleaning", Terms: []string{"eaves"}},
			},
		},
		Status: RuleSet{
			Axis:    model.AxisStatus,
			Mode:    MatchFirst,
			Default: "Pending",
			Rules: []Rule{
				{Label: "Completed", Terms: []string{"completed"}},
				{Label: "Rescheduled", Terms: []string{"rescheduled"}},
				{Label: "Cancelled", Terms: []string{"cancelled"}},
			},
		},
		ScheduleClient: RuleSet{
			Axis:    model.AxisClientType,
			Mode:    MatchFirst,
			Default: LabelResidential,
			Rules: []Rule{
				{Label: LabelCommercial, Terms: []string{"commercial"}},
			},
		},
		Crew: RuleSet{
			Axis:    model.AxisCrewOrganization,
			Mode:    MatchFirst,
			Default: "Solo",
			Rules: []Rule{
				{Label: "Team", Terms: []string{"team", "crew", "+", "&", "and"}},
			},
		},
	}
}
