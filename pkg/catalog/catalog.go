// Package catalog declares the reference schemas of the space operations
// domain: stations, alien contact reports, crew members and missions.
package catalog

import (
	"github.com/dmitrymomot/recordkit/pkg/registry"
	"github.com/dmitrymomot/recordkit/pkg/schema"
)

// Schema names.
const (
	SpaceStation = "space_station"
	AlienContact = "alien_contact"
	CrewMember   = "crew_member"
	SpaceMission = "space_mission"
)

// Contact types.
const (
	ContactRadio      = "radio"
	ContactVisual     = "visual"
	ContactPhysical   = "physical"
	ContactTelepathic = "telepathic"
)

// Crew ranks.
const (
	RankCadet      = "cadet"
	RankOfficer    = "officer"
	RankLieutenant = "lieutenant"
	RankCaptain    = "captain"
	RankCommander  = "commander"
)

// Rule names.
const (
	RuleContactPrefix       = "contact_prefix"
	RulePhysicalVerified    = "physical_verified"
	RuleTelepathicWitness   = "telepathic_witnesses"
	RuleStrongSignalMessage = "strong_signal_message"
	RuleMissionPrefix       = "mission_prefix"
	RuleSeniorCrew          = "senior_crew"
	RuleExperiencedCrew     = "experienced_crew"
	RuleCrewActive          = "crew_active"
)

var (
	spaceStation = schema.MustDefine(SpaceStation, []schema.Field{
		schema.String("station_id", schema.Length(3, 10)),
		schema.String("name", schema.Length(1, 50)),
		schema.Integer("crew_size", schema.Range(1, 20)),
		schema.Float("power_level", schema.Range(0, 100)),
		schema.Float("oxygen_level", schema.Range(0, 100)),
		schema.DateTime("last_maintenance"),
		schema.Boolean("is_operational", schema.Default(true)),
		schema.String("notes", schema.Optional(), schema.MaxLength(200)),
	}, nil, schema.WithDescription("Space station status report"))

	alienContact = schema.MustDefine(AlienContact, []schema.Field{
		schema.String("contact_id", schema.Length(5, 15)),
		schema.DateTime("timestamp"),
		schema.String("location", schema.Length(3, 100)),
		schema.Enum("contact_type", []string{ContactRadio, ContactVisual, ContactPhysical, ContactTelepathic}),
		schema.Float("signal_strength", schema.Range(0, 10)),
		schema.Integer("duration_minutes", schema.Range(1, 1440)),
		schema.Integer("witness_count", schema.Range(1, 100)),
		schema.String("message_received", schema.Optional(), schema.MaxLength(500)),
		schema.Boolean("is_verified", schema.Default(false)),
	}, []schema.Rule{
		schema.HasPrefix(RuleContactPrefix, "contact_id", "AC",
			"Contact ID must start with AC"),
		schema.Requires(RulePhysicalVerified,
			schema.FieldEquals("contact_type", ContactPhysical),
			schema.FieldIs("is_verified", true),
			"Physical contact reports must be verified").At("is_verified"),
		schema.Requires(RuleTelepathicWitness,
			schema.FieldEquals("contact_type", ContactTelepathic),
			schema.FieldAtLeast("witness_count", 3),
			"Telepathic contact requires at least 3 witnesses").At("witness_count"),
		schema.Requires(RuleStrongSignalMessage,
			schema.FieldGreater("signal_strength", 7.0),
			schema.FieldPresent("message_received"),
			"Strong signals (> 7.0) should include received messages").At("message_received"),
	}, schema.WithDescription("Alien contact log entry"))

	crewMember = schema.MustDefine(CrewMember, []schema.Field{
		schema.String("member_id", schema.Length(3, 10)),
		schema.String("name", schema.Length(2, 50)),
		schema.Enum("rank", []string{RankCadet, RankOfficer, RankLieutenant, RankCaptain, RankCommander}),
		schema.Integer("age", schema.Range(18, 80)),
		schema.String("specialization", schema.Length(3, 30)),
		schema.Integer("years_experience", schema.Range(0, 50)),
		schema.Boolean("is_active", schema.Default(true)),
	}, nil, schema.WithDescription("Crew member assigned to a mission"))

	spaceMission = schema.MustDefine(SpaceMission, []schema.Field{
		schema.String("mission_id", schema.Length(5, 15)),
		schema.String("mission_name", schema.Length(3, 100)),
		schema.String("destination", schema.Length(3, 50)),
		schema.DateTime("launch_date"),
		schema.Integer("duration_days", schema.Range(1, 3650)),
		schema.List("crew", schema.RecordOf(crewMember), schema.Length(1, 12)),
		schema.String("mission_status", schema.Default("planned")),
		schema.Float("budget_millions", schema.Range(1, 10000)),
	}, []schema.Rule{
		schema.HasPrefix(RuleMissionPrefix, "mission_id", "M",
			"Mission ID must start with 'M'"),
		schema.AtLeastOne(RuleSeniorCrew, "crew",
			schema.FieldIn("rank", RankCaptain, RankCommander),
			"Mission must have at least one Commander or Captain"),
		schema.When(schema.FieldGreater("duration_days", 365),
			schema.AtLeastPercent(RuleExperiencedCrew, "crew", 50,
				schema.FieldAtLeast("years_experience", 5),
				"Long missions (> 365 days) need 50% experienced crew (5+ years)")),
		schema.Every(RuleCrewActive, "crew",
			schema.FieldIs("is_active", true),
			"All crew members must be active"),
	}, schema.WithDescription("Space mission with its crew"))
)

func SpaceStationSchema() *schema.Schema { return spaceStation }
func AlienContactSchema() *schema.Schema { return alienContact }
func CrewMemberSchema() *schema.Schema   { return crewMember }
func SpaceMissionSchema() *schema.Schema { return spaceMission }

// All returns every catalog schema, children before the schemas that use them.
func All() []*schema.Schema {
	return []*schema.Schema{spaceStation, alienContact, crewMember, spaceMission}
}

// Registry returns a new registry holding every catalog schema.
func Registry(opts ...registry.Option) *registry.Registry {
	r := registry.New(opts...)
	for _, s := range All() {
		r.MustRegister(s)
	}
	return r
}
