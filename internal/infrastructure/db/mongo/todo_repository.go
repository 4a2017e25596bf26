package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tasktrack/todo-api/internal/core/domain"
)

const collectionTodos = "todos"

type TodoRepository struct {
	col *mongo.Collection
}

func NewTodoRepository(db *mongo.Database) *TodoRepository {
	return &TodoRepository{col: db.Collection(collectionTodos)}
}

type todoDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	Title     string             `bson:"title"`
	Completed bool               `bson:"completed"`
	OwnerID   string             `bson:"owner_id"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

// FindByID retrieves a todo. Ids that are not valid ObjectIDs cannot exist
// and are reported as domain.ErrTodoNotFound.
func (r *TodoRepository) FindByID(ctx context.Context, id string) (*domain.Todo, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrTodoNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc todoDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTodoNotFound
		}
		return nil, fmt.Errorf("find todo: %w", err)
	}
	return doc.toDomain(), nil
}

// Save inserts when the todo has no ID yet, otherwise replaces it by ID.
func (r *TodoRepository) Save(ctx context.Context, todo *domain.Todo) (*domain.Todo, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := todoDocument{
		Title:     todo.Title,
		Completed: todo.Completed,
		OwnerID:   todo.OwnerID,
		CreatedAt: todo.CreatedAt.UTC(),
		UpdatedAt: todo.UpdatedAt.UTC(),
	}

	if todo.ID == "" {
		doc.ID = primitive.NewObjectID()
		if _, err := r.col.InsertOne(ctx, doc); err != nil {
			return nil, fmt.Errorf("insert todo: %w", err)
		}
		return doc.toDomain(), nil
	}

	oid, ok := objectID(todo.ID)
	if !ok {
		return nil, domain.ErrTodoNotFound
	}
	doc.ID = oid
	if _, err := r.col.ReplaceOne(ctx, bson.M{"_id": oid}, doc, options.Replace().SetUpsert(true)); err != nil {
		return nil, fmt.Errorf("replace todo: %w", err)
	}
	return doc.toDomain(), nil
}

// DeleteByID removes a todo. Deleting an unknown id is not an error.
func (r *TodoRepository) DeleteByID(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	return nil
}

func (r *TodoRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	oid, ok := objectID(id)
	if !ok {
		return false, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	err := r.col.FindOne(ctx, bson.M{"_id": oid}, options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return false, nil
	default:
		return false, fmt.Errorf("exists todo: %w", err)
	}
}

// FindAllByOwner returns the owner's todos oldest first.
func (r *TodoRepository) FindAllByOwner(ctx context.Context, ownerID string) ([]*domain.Todo, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{"owner_id": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find todos: %w", err)
	}
	defer cur.Close(ctx)

	var docs []todoDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode todos: %w", err)
	}

	todos := make([]*domain.Todo, 0, len(docs))
	for _, d := range docs {
		todos = append(todos, d.toDomain())
	}
	return todos, nil
}

// EnsureIndexes creates the owner index used by FindAllByOwner.
func (r *TodoRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "created_at", Value: 1}},
	})
	return err
}

func (d todoDocument) toDomain() *domain.Todo {
	return &domain.Todo{
		ID:        d.ID.Hex(),
		Title:     d.Title,
		Completed: d.Completed,
		OwnerID:   d.OwnerID,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}
