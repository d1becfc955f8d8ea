package admin

import (
	"sort"

	"github.com/BruksfildServices01/gym-manager/internal/models"
)

// Relation is a foreign key from a resource table to another table.
type Relation struct {
	Column string
	Table  string
}

// relations lists, per table, the foreign keys search paths and filters may follow.
var relations = map[string]map[string]Relation{
	"member_profiles": {
		"user": {Column: "user_id", Table: "users"},
	},
	"schedules": {
		"user":           {Column: "user_id", Table: "users"},
		"pt":             {Column: "pt_id", Table: "users"},
		"member_package": {Column: "member_package_id", Table: "member_packages"},
	},
	"reviews": {
		"user": {Column: "user_id", Table: "users"},
		"pt":   {Column: "pt_id", Table: "users"},
	},
	"progress": {
		"user": {Column: "user_id", Table: "users"},
		"pt":   {Column: "pt_id", Table: "users"},
	},
	"payments": {
		"member_package": {Column: "member_package_id", Table: "member_packages"},
	},
	"member_packages": {
		"user":    {Column: "user_id", Table: "users"},
		"package": {Column: "package_id", Table: "packages"},
	},
	"notifications": {
		"user": {Column: "user_id", Table: "users"},
	},
	"chat_participants": {
		"chat": {Column: "chat_id", Table: "chats"},
		"user": {Column: "user_id", Table: "users"},
	},
	"messages": {
		"chat":   {Column: "chat_id", Table: "chats"},
		"sender": {Column: "sender_id", Table: "users"},
	},
}

// Resource is the list configuration of one model in the admin site.
type Resource struct {
	Name          string   `json:"name"`
	ListDisplay   []string `json:"list_display"`
	ListFilter    []string `json:"list_filter"`
	SearchFields  []string `json:"search_fields"`
	DateHierarchy string   `json:"date_hierarchy,omitempty"`
	Ordering      []string `json:"ordering"`
	TrainerAccess bool     `json:"trainer_access"`

	table        string
	trainerScope string
	preload      []string
	newSlice     func() any
}

func (r Resource) Table() string {
	return r.table
}

var resources = map[string]Resource{
	"users": {
		Name:         "users",
		ListDisplay:  []string{"username", "email", "first_name", "last_name", "role", "phone", "is_staff", "is_superuser", "is_active", "date_joined", "created_at"},
		ListFilter:   []string{"role", "is_staff", "is_active"},
		SearchFields: []string{"username", "email", "first_name", "last_name"},
		Ordering:     []string{"username"},
		table:        "users",
		newSlice:     func() any { return &[]models.User{} },
	},
	"member-profiles": {
		Name:         "member-profiles",
		ListDisplay:  []string{"user", "height", "weight", "bmi", "updated_at"},
		SearchFields: []string{"user__username", "user__email"},
		Ordering:     []string{"-updated_at"},
		table:        "member_profiles",
		preload:      []string{"User"},
		newSlice:     func() any { return &[]models.MemberProfile{} },
	},
	"schedules": {
		Name:          "schedules",
		ListDisplay:   []string{"user", "pt", "start_time", "end_time", "status", "note"},
		ListFilter:    []string{"status", "pt"},
		SearchFields:  []string{"user__username", "pt__username", "note"},
		DateHierarchy: "start_time",
		Ordering:      []string{"-start_time"},
		TrainerAccess: true,
		table:         "schedules",
		trainerScope:  "pt_id",
		preload:       []string{"User", "PT"},
		newSlice:      func() any { return &[]models.Schedule{} },
	},
	"reviews": {
		Name:          "reviews",
		ListDisplay:   []string{"user", "pt", "gym_rating", "pt_rating", "created_at"},
		ListFilter:    []string{"gym_rating", "pt_rating"},
		SearchFields:  []string{"user__username", "pt__username", "comment"},
		DateHierarchy: "created_at",
		Ordering:      []string{"-created_at"},
		table:         "reviews",
		preload:       []string{"User", "PT"},
		newSlice:      func() any { return &[]models.Review{} },
	},
	"progress": {
		Name:          "progress",
		ListDisplay:   []string{"user", "pt", "weight", "body_fat", "muscle_mass", "recorded_at"},
		ListFilter:    []string{"pt"},
		SearchFields:  []string{"user__username", "pt__username", "note"},
		DateHierarchy: "recorded_at",
		Ordering:      []string{"-recorded_at"},
		table:         "progress",
		preload:       []string{"User", "PT"},
		newSlice:      func() any { return &[]models.Progress{} },
	},
	"payments": {
		Name:          "payments",
		ListDisplay:   []string{"member_package", "amount", "method", "payment_date", "status"},
		ListFilter:    []string{"method", "status"},
		SearchFields:  []string{"member_package__user__username", "member_package__package__name"},
		DateHierarchy: "payment_date",
		Ordering:      []string{"-payment_date"},
		table:         "payments",
		preload:       []string{"MemberPackage", "MemberPackage.User", "MemberPackage.Package"},
		newSlice:      func() any { return &[]models.Payment{} },
	},
	"packages": {
		Name:         "packages",
		ListDisplay:  []string{"name", "price", "pt_sessions", "package_type", "is_active"},
		ListFilter:   []string{"package_type", "is_active"},
		SearchFields: []string{"name"},
		Ordering:     []string{"name"},
		table:        "packages",
		newSlice:     func() any { return &[]models.Package{} },
	},
	"member-packages": {
		Name:         "member-packages",
		ListDisplay:  []string{"user", "package", "start_date", "end_date", "status"},
		ListFilter:   []string{"status"},
		SearchFields: []string{"user__username", "package__name"},
		Ordering:     []string{"-start_date"},
		table:        "member_packages",
		preload:      []string{"User", "Package"},
		newSlice:     func() any { return &[]models.MemberPackage{} },
	},
	"notifications": {
		Name:          "notifications",
		ListDisplay:   []string{"title", "user", "type", "sent_at", "is_read"},
		ListFilter:    []string{"type", "is_read"},
		SearchFields:  []string{"title", "message", "user__username"},
		DateHierarchy: "sent_at",
		Ordering:      []string{"-sent_at"},
		table:         "notifications",
		newSlice:      func() any { return &[]models.Notification{} },
	},
	"chats": {
		Name:         "chats",
		ListDisplay:  []string{"chat_name", "is_group", "last_message", "last_updated"},
		ListFilter:   []string{"is_group"},
		SearchFields: []string{"chat_name"},
		Ordering:     []string{"-last_updated"},
		table:        "chats",
		newSlice:     func() any { return &[]models.Chat{} },
	},
	"chat-participants": {
		Name:         "chat-participants",
		ListDisplay:  []string{"chat", "user", "joined_at"},
		ListFilter:   []string{"chat"},
		SearchFields: []string{"user__username"},
		Ordering:     []string{"-joined_at"},
		table:        "chat_participants",
		preload:      []string{"User"},
		newSlice:     func() any { return &[]models.ChatParticipant{} },
	},
	"messages": {
		Name:         "messages",
		ListDisplay:  []string{"chat", "sender", "content", "timestamp"},
		ListFilter:   []string{"chat", "sender"},
		SearchFields: []string{"content", "sender__username"},
		Ordering:     []string{"-timestamp"},
		table:        "messages",
		preload:      []string{"Sender"},
		newSlice:     func() any { return &[]models.Message{} },
	},
}

// Lookup returns the configuration registered under name.
func Lookup(name string) (Resource, bool) {
	r, ok := resources[name]
	return r, ok
}

// All returns every registered resource sorted by name.
func All() []Resource {
	out := make([]Resource, 0, len(resources))
	for _, r := range resources {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
