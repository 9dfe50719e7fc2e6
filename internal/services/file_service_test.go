package services

import (
	"context"
	"io"
	"strings"
	"testing"

	"configly/internal/testutil"
)

// fakeStore is an in-memory storage.Store.
type fakeStore struct {
	objects  map[string][]byte
	deleteFn func(key string) error
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string][]byte)}
}

func (s *fakeStore) Upload(_ context.Context, key string, body io.Reader, _ string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.objects[key] = data
	return nil
}

func (s *fakeStore) PresignGet(_ context.Context, key string) (string, error) {
	return "https://files.test/" + key, nil
}

func (s *fakeStore) Delete(_ context.Context, key string) error {
	if s.deleteFn != nil {
		return s.deleteFn(key)
	}
	delete(s.objects, key)
	return nil
}

func TestUploadFile(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	client := testutil.CreateTestClient(t, db)
	store := newFakeStore()
	svc := NewFileService(db, store)

	body := strings.NewReader("logo bytes")
	file, err := svc.Upload(context.Background(), client.ID, "My Logo.png", "image/png", 10, body)
	testutil.AssertNoError(t, err)

	if !strings.HasPrefix(file.ObjectKey, "clients/") {
		t.Errorf("object key = %q, want client-scoped prefix", file.ObjectKey)
	}
	if !strings.HasSuffix(file.ObjectKey, "-My-Logo.png") && !strings.Contains(file.ObjectKey, "Logo") {
		t.Errorf("object key %q lost the sanitized file name", file.ObjectKey)
	}
	if _, ok := store.objects[file.ObjectKey]; !ok {
		t.Error("upload did not reach the store")
	}
}

func TestUploadFileValidation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	client := testutil.CreateTestClient(t, db)
	svc := NewFileService(db, newFakeStore())

	_, err := svc.Upload(context.Background(), client.ID, "", "image/png", 10, strings.NewReader("x"))
	testutil.AssertAppError(t, err, "VALIDATION_ERROR")

	_, err = svc.Upload(context.Background(), client.ID, "big.bin", "application/octet-stream", maxUploadSize+1, strings.NewReader("x"))
	testutil.AssertAppError(t, err, "VALIDATION_ERROR")

	_, err = svc.Upload(context.Background(), client.ID, "empty.bin", "application/octet-stream", 0, strings.NewReader(""))
	testutil.AssertAppError(t, err, "VALIDATION_ERROR")
}

func TestPresignedURLScopedToOwner(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	owner := testutil.CreateTestClient(t, db)
	intruder := testutil.CreateTestClient(t, db)
	svc := NewFileService(db, newFakeStore())

	file, err := svc.Upload(context.Background(), owner.ID, "doc.pdf", "application/pdf", 4, strings.NewReader("pdf!"))
	testutil.AssertNoError(t, err)

	url, err := svc.PresignedURL(context.Background(), owner.ID, file.ID)
	testutil.AssertNoError(t, err)
	if !strings.Contains(url, file.ObjectKey) {
		t.Errorf("url = %q, want it to reference %q", url, file.ObjectKey)
	}

	_, err = svc.PresignedURL(context.Background(), intruder.ID, file.ID)
	testutil.AssertAppError(t, err, "FILE_NOT_FOUND")
}

func TestDeleteFile(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	client := testutil.CreateTestClient(t, db)
	store := newFakeStore()
	svc := NewFileService(db, store)

	file, err := svc.Upload(context.Background(), client.ID, "doc.pdf", "application/pdf", 4, strings.NewReader("pdf!"))
	testutil.AssertNoError(t, err)

	testutil.AssertNoError(t, svc.Delete(context.Background(), client.ID, file.ID))
	if _, ok := store.objects[file.ObjectKey]; ok {
		t.Error("object still in store after delete")
	}

	_, err = svc.PresignedURL(context.Background(), client.ID, file.ID)
	testutil.AssertAppError(t, err, "FILE_NOT_FOUND")
}
