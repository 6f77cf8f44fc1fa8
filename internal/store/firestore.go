package store

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore is the production Store backed by Cloud Firestore.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore initializes the Firebase app and opens a Firestore
// client. credentialsFile may be empty, in which case application default
// credentials are used.
func NewFirestoreStore(ctx context.Context, projectID, credentialsFile string) (*FirestoreStore, error) {
	conf := &firebase.Config{ProjectID: projectID}

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, conf, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open firestore client: %w", err)
	}

	return &FirestoreStore{client: client}, nil
}

func mapFirestoreError(err error) error {
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	return err
}

func (s *FirestoreStore) Get(ctx context.Context, collection, id string, out any) error {
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		return mapFirestoreError(err)
	}
	return snap.DataTo(out)
}

func (s *FirestoreStore) Query(ctx context.Context, collection string, q Query) ([]Snapshot, error) {
	docs, err := s.buildQuery(collection, q).Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	return wrapSnapshots(docs), nil
}

func (s *FirestoreStore) Set(ctx context.Context, collection, id string, data any) error {
	_, err := s.client.Collection(collection).Doc(id).Set(ctx, data)
	return err
}

func (s *FirestoreStore) Update(ctx context.Context, collection, id string, updates []Update) error {
	_, err := s.client.Collection(collection).Doc(id).Update(ctx, toFirestoreUpdates(updates))
	return mapFirestoreError(err)
}

func (s *FirestoreStore) Delete(ctx context.Context, collection, id string) error {
	_, err := s.client.Collection(collection).Doc(id).Delete(ctx)
	return err
}

// RunTransaction runs fn with Firestore's optimistic transaction. Firestore
// retries fn on contention, so fn must be safe to re-run; all reads must
// happen before the first write.
func (s *FirestoreStore) RunTransaction(ctx context.Context, fn func(tx Tx) error) error {
	return s.client.RunTransaction(ctx, func(ctx context.Context, t *firestore.Transaction) error {
		return fn(&firestoreTx{client: s.client, tx: t})
	})
}

func (s *FirestoreStore) Close() error {
	return s.client.Close()
}

func (s *FirestoreStore) buildQuery(collection string, q Query) firestore.Query {
	fq := s.client.Collection(collection).Query
	for _, f := range q.Filters {
		fq = fq.Where(f.Field, f.Op, f.Value)
	}
	if q.OrderBy != "" {
		dir := firestore.Asc
		if q.Desc {
			dir = firestore.Desc
		}
		fq = fq.OrderBy(q.OrderBy, dir)
	}
	if q.Limit > 0 {
		fq = fq.Limit(q.Limit)
	}
	return fq
}

type firestoreTx struct {
	client *firestore.Client
	tx     *firestore.Transaction
}

func (t *firestoreTx) Get(collection, id string, out any) error {
	snap, err := t.tx.Get(t.client.Collection(collection).Doc(id))
	if err != nil {
		return mapFirestoreError(err)
	}
	return snap.DataTo(out)
}

func (t *firestoreTx) Query(collection string, q Query) ([]Snapshot, error) {
	fq := t.client.Collection(collection).Query
	for _, f := range q.Filters {
		fq = fq.Where(f.Field, f.Op, f.Value)
	}
	if q.OrderBy != "" {
		dir := firestore.Asc
		if q.Desc {
			dir = firestore.Desc
		}
		fq = fq.OrderBy(q.OrderBy, dir)
	}
	if q.Limit > 0 {
		fq = fq.Limit(q.Limit)
	}
	docs, err := t.tx.Documents(fq).GetAll()
	if err != nil {
		return nil, err
	}
	return wrapSnapshots(docs), nil
}

func (t *firestoreTx) Set(collection, id string, data any) error {
	return t.tx.Set(t.client.Collection(collection).Doc(id), data)
}

func (t *firestoreTx) Update(collection, id string, updates []Update) error {
	return mapFirestoreError(t.tx.Update(t.client.Collection(collection).Doc(id), toFirestoreUpdates(updates)))
}

func (t *firestoreTx) Delete(collection, id string) error {
	return t.tx.Delete(t.client.Collection(collection).Doc(id))
}

type firestoreSnapshot struct {
	doc *firestore.DocumentSnapshot
}

func (s firestoreSnapshot) ID() string         { return s.doc.Ref.ID }
func (s firestoreSnapshot) DataTo(v any) error { return s.doc.DataTo(v) }

func wrapSnapshots(docs []*firestore.DocumentSnapshot) []Snapshot {
	snaps := make([]Snapshot, 0, len(docs))
	for _, d := range docs {
		snaps = append(snaps, firestoreSnapshot{doc: d})
	}
	return snaps
}

func toFirestoreUpdates(updates []Update) []firestore.Update {
	ups := make([]firestore.Update, 0, len(updates))
	for _, u := range updates {
		ups = append(ups, firestore.Update{Path: u.Field, Value: u.Value})
	}
	return ups
}
