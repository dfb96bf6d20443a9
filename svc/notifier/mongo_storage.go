package notifier

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// MongoStorage implements RecipientRepository and TaskRepository over the
// application's users and tasks collections.
type MongoStorage struct {
	users *mongo.Collection
	tasks *mongo.Collection
}

// NewMongoStorage creates a storage backed by the given database.
func NewMongoStorage(db *mongo.Database) *MongoStorage {
	return &MongoStorage{
		users: db.Collection("users"),
		tasks: db.Collection("tasks"),
	}
}

// userDocument mirrors the account fields the scheduler touches. The
// account-management subsystem owns the rest of the document.
type userDocument struct {
	ID                      bson.ObjectID `bson:"_id"`
	Email                   string        `bson:"email"`
	Name                    string        `bson:"name"`
	LastOverdueNotification *time.Time    `bson:"lastOverdueNotification,omitempty"`
}

// taskDocument mirrors the task fields the scheduler reads. DueDate is
// decoded loosely because historical documents stored it either as a
// string or as a BSON date.
type taskDocument struct {
	ID          bson.ObjectID `bson:"_id"`
	UserID      bson.ObjectID `bson:"userId"`
	Title       string        `bson:"title"`
	Description string        `bson:"description"`
	DueDate     any           `bson:"dueDate"`
	Status      string        `bson:"status"`
}

// ListRecipients implements RecipientRepository.
func (s *MongoStorage) ListRecipients(ctx context.Context) ([]Recipient, error) {
	cursor, err := s.users.Find(ctx, bson.D{})
	if err != nil {
		return nil, errors.Join(ErrListRecipients, err)
	}

	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, errors.Join(ErrListRecipients, err)
	}

	recipients := make([]Recipient, 0, len(docs))
	for _, doc := range docs {
		recipients = append(recipients, doc.toRecipient())
	}
	return recipients, nil
}

// GetRecipient implements RecipientRepository. The identifier may be a hex
// object id or an email address; administrative tooling historically used
// both.
func (s *MongoStorage) GetRecipient(ctx context.Context, id string) (*Recipient, error) {
	filter := bson.M{"email": id}
	if oid, err := bson.ObjectIDFromHex(id); err == nil {
		filter = bson.M{"_id": oid}
	}

	var doc userDocument
	if err := s.users.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrRecipientNotFound
		}
		return nil, errors.Join(ErrListRecipients, err)
	}

	rcpt := doc.toRecipient()
	return &rcpt, nil
}

// SetLastNotified implements RecipientRepository.
func (s *MongoStorage) SetLastNotified(ctx context.Context, id string, at time.Time) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return errors.Join(ErrUpdateRecipient, err)
	}

	_, err = s.users.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"lastOverdueNotification": at}},
	)
	if err != nil {
		return errors.Join(ErrUpdateRecipient, err)
	}
	return nil
}

// PendingTasks implements TaskRepository. The status filter is pushed into
// the query; the overdue cut happens in the scan engine so that due-date
// parsing stays in one place.
func (s *MongoStorage) PendingTasks(ctx context.Context, ownerID string) ([]Task, error) {
	oid, err := bson.ObjectIDFromHex(ownerID)
	if err != nil {
		return nil, errors.Join(ErrListTasks, err)
	}

	cursor, err := s.tasks.Find(ctx, bson.M{
		"userId": oid,
		"status": TaskStatusPending,
	})
	if err != nil {
		return nil, errors.Join(ErrListTasks, err)
	}

	var docs []taskDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, errors.Join(ErrListTasks, err)
	}

	tasks := make([]Task, 0, len(docs))
	for _, doc := range docs {
		tasks = append(tasks, Task{
			ID:          doc.ID.Hex(),
			OwnerID:     doc.UserID.Hex(),
			Title:       doc.Title,
			Description: doc.Description,
			DueDate:     rawDueDate(doc.DueDate),
			Status:      doc.Status,
		})
	}
	return tasks, nil
}

func (d userDocument) toRecipient() Recipient {
	return Recipient{
		ID:                      d.ID.Hex(),
		Email:                   d.Email,
		Name:                    d.Name,
		LastOverdueNotification: d.LastOverdueNotification,
	}
}

// rawDueDate normalizes a loosely-typed due date to its string form.
// Unknown types yield an empty string, which the engine treats as
// unparseable rather than overdue.
func rawDueDate(v any) string {
	switch d := v.(type) {
	case string:
		return d
	case bson.DateTime:
		return d.Time().UTC().Format(time.RFC3339)
	case time.Time:
		return d.UTC().Format(time.RFC3339)
	default:
		return ""
	}
}
