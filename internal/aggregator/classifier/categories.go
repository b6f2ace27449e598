package classifier

// category pairs a name with its scoring keywords. Order matters: scoring
// ties resolve to the earlier entry.
type category struct {
	name     string
	keywords []string
}

var categories = []category{
	{"traffic", []string{"accident", "traffic", "road", "highway", "bus", "train", "delay", "collision", "jam"}},
	{"weather", []string{"rain", "flood", "cyclone", "landslide", "weather", "storm", "temperature", "hot"}},
	{"safety", []string{"fire", "emergency", "rescue", "missing", "explosion", "collapse"}},
	{"crime", []string{"arrest", "robbery", "theft", "drugs", "police", "court", "murder"}},
	{"government", []string{"government", "policy", "tax", "minister", "president", "official"}},
	{"economy", []string{"economy", "market", "price", "currency", "business", "inflation"}},
	{"health", []string{"health", "hospital", "dengue", "covid", "disease", "medical"}},
	{"environment", []string{"environment", "wildlife", "pollution", "forest", "river", "animal"}},
	{"social", []string{"protest", "strike", "political", "demonstration", "rally"}},
	{"community", []string{"concert", "festival", "event", "sports", "celebration", "match"}},
}

// CategoryNames returns the category names in table order.
func CategoryNames() []string {
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, c.name)
	}
	return names
}

// subcategoryPattern pairs a subcategory with its trigger keywords. The
// first pattern with any hit wins.
type subcategoryPattern struct {
	name     string
	keywords []string
}

var subcategoryPatterns = map[string][]subcategoryPattern{
	"traffic": {
		{"road_accident", []string{"accident", "crash", "collision", "fatal", "vehicle", "car"}},
		{"road_closures", []string{"closure", "closed", "blocked", "diversion", "blockade"}},
		{"traffic_jams", []string{"jam", "congestion", "heavy traffic", "gridlock", "bottleneck"}},
		{"train_delays", []string{"train", "railway", "delay", "derailment", "rail", "locomotive"}},
		{"bus_issues", []string{"bus", "breakdown", "bus service", "transport", "public transport"}},
		{"highway_updates", []string{"highway", "expressway", "road work", "construction", "flyover"}},
	},
	"weather": {
		{"rainfall_alerts", []string{"rain", "rainfall", "shower", "precipitation", "drizzle"}},
		{"floods", []string{"flood", "flooding", "inundated", "waterlogged", "submerged"}},
		{"landslides", []string{"landslide", "mudslide", "earth slip", "rock fall", "debris"}},
		{"cyclones", []string{"cyclone", "storm", "hurricane", "depression", "typhoon"}},
		{"earthquakes", []string{"earthquake", "tremor", "seismic", "quake", "epicenter"}},
		{"droughts", []string{"drought", "dry", "water shortage", "scarcity", "arid"}},
		{"heatwaves", []string{"heat", "heatwave", "hot", "temperature", "scorching"}},
	},
	"safety": {
		{"fires", []string{"fire", "blaze", "inferno", "combustion", "flames"}},
		{"gas_leaks", []string{"gas", "leak", "explosion", "cylinder", "lpg"}},
		{"building_collapses", []string{"building", "collapse", "structure", "demolition"}},
		{"missing_persons", []string{"missing", "person", "lost", "disappeared", "search"}},
		{"rescue_operations", []string{"rescue", "operation", "evacuation", "save", "help"}},
		{"emergency_health_alerts", []string{"emergency", "health", "alert", "outbreak", "epidemic"}},
	},
	"crime": {
		{"arrests", []string{"arrest", "arrested", "detained", "custody", "captured"}},
		{"theft_robbery", []string{"theft", "robbery", "stolen", "burglary", "loot"}},
		{"drugs", []string{"drug", "narcotic", "cocaine", "heroin", "meth"}},
		{"police_operations", []string{"police", "operation", "raid", "crackdown", "investigation"}},
		{"court_legal_updates", []string{"court", "legal", "trial", "verdict", "judge"}},
	},
}

// sriLankaLocations is the gazetteer: provinces first, then major cities.
// Match order follows list order.
var sriLankaLocations = []string{
	"Western Province", "Central Province", "Southern Province",
	"Northern Province", "Eastern Province", "North Western Province",
	"North Central Province", "Uva Province", "Sabaragamuwa Province",

	"Colombo", "Kandy", "Galle", "Jaffna", "Negombo", "Kurunegala",
	"Anuradhapura", "Polonnaruwa", "Trincomalee", "Batticaloa",
	"Matara", "Ratnapura", "Badulla", "Hambantota", "Kalutara",
	"Mannar", "Vavuniya", "Kilinochchi", "Mullaitivu", "Ampara",
	"Puttalam", "Nuwara Eliya", "Kegalle", "Moneragala",
}

// Locations returns a copy of the gazetteer.
func Locations() []string {
	out := make([]string, len(sriLankaLocations))
	copy(out, sriLankaLocations)
	return out
}

var highSeverityKeywords = []string{
	"emergency", "fatal", "dead", "killed", "disaster", "death",
	"warning", "danger", "major", "severe", "catastrophic",
	"evacuate", "urgent", "critical", "massive", "destroyed",
	"tragic", "horrific", "multiple deaths", "many injured",
}

var mediumSeverityKeywords = []string{
	"injured", "damage", "delay", "disruption", "alert",
	"moderate", "significant", "affected", "closure",
	"protest", "strike", "arrest", "investigation", "incident",
	"accident", "collision", "fire", "flood", "landslide",
}

var lowSeverityKeywords = []string{
	"update", "announcement", "meeting", "planned",
	"information", "minor", "small", "notice", "schedule",
	"advisory", "reminder", "maintenance", "upcoming",
	"expected", "routine", "normal",
}

var impactTemplates = map[string]map[string]string{
	"traffic": {
		"high":   "Major traffic disruption with significant delays expected. Alternative routes recommended.",
		"medium": "Traffic congestion affecting travel times in the area.",
		"low":    "Minor traffic updates. Motorists advised to exercise caution.",
		"info":   "Traffic information update for public awareness.",
	},
	"weather": {
		"high":   "Severe weather conditions posing risks to public safety. Follow official warnings.",
		"medium": "Weather-related disruptions expected. Stay informed about updates.",
		"low":    "Weather advisory in effect. Minor inconveniences possible.",
		"info":   "Weather information update for planning purposes.",
	},
	"safety": {
		"high":   "Emergency safety situation requiring immediate attention and precautions.",
		"medium": "Safety concerns reported in the area. Exercise caution.",
		"low":    "Safety advisory issued. Public advised to remain vigilant.",
		"info":   "Safety information update for community awareness.",
	},
	"crime": {
		"high":   "Serious criminal activity reported. Public advised to avoid area.",
		"medium": "Police operations ongoing. Exercise caution in the vicinity.",
		"low":    "Minor criminal incident reported. Increased police presence.",
		"info":   "Law enforcement update for public information.",
	},
	"government": {
		"high":   "Major government announcement affecting public services.",
		"medium": "Policy changes announced. Impact on services expected.",
		"low":    "Government service update for public information.",
		"info":   "Public administration update.",
	},
}

var genericImpacts = map[string]string{
	"high":   "Serious situation requiring attention. Follow official instructions.",
	"medium": "Moderate impact expected. Stay informed about developments.",
	"low":    "Minor impact with limited effect on daily activities.",
	"info":   "General information update for public awareness.",
}
