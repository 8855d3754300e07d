package realtime

import "context"

// EventChange is the only event clients receive; they refetch on it.
const EventChange = "change"

// Tables that emit change notifications.
const (
	TableMenuItems  = "menu_items"
	TableCategories = "categories"
	TableOrders     = "orders"
)

type ChangeType string

const (
	ChangeInsert ChangeType = "INSERT"
	ChangeUpdate ChangeType = "UPDATE"
	ChangeDelete ChangeType = "DELETE"
)

// Change describes a row mutation. OwnerID is set for order rows.
type Change struct {
	Table    string     `json:"table"`
	Type     ChangeType `json:"type"`
	RecordID string     `json:"record_id"`
	OwnerID  string     `json:"owner_id,omitempty"`
}

// Publisher delivers change notifications. Delivery is best effort.
type Publisher interface {
	Publish(ctx context.Context, c Change) error
}

// Route lists the topics a change is delivered to.
func Route(c Change) []string {
	switch c.Table {
	case TableMenuItems, TableCategories:
		return []string{TopicMenu, TopicAdmin}
	case TableOrders:
		topics := []string{TopicAdmin}
		if c.OwnerID != "" {
			topics = append(topics, UserTopic(c.OwnerID))
		}
		return topics
	}
	return nil
}
