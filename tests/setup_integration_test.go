package tests

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/ghost-detector/internal/services"
	"github.com/maxaizer/ghost-detector/internal/storage/sqlstore"
	log "github.com/sirupsen/logrus"
)

var (
	store     *sqlstore.Store
	service   *services.AnalysisService
	extractor *mockExtractor
	scorer    *mockScorer
)

func upEnvironment() {

	var err error
	store, err = sqlstore.Open("testdatabase.db")
	if err != nil {
		log.Fatalf("could not open test database: %s", err)
	}

	if err = store.Migrate(); err != nil {
		log.Fatalf("could not migrate test database: %s", err)
	}

	extractor = newMockExtractor()
	scorer = &mockScorer{}
	service = services.NewAnalysisService(EventBus.New(), store, nil, extractor, scorer)
}

func downEnvironment() {
	_ = store.Close()
	_ = os.Remove("testdatabase.db")
}

func clearDb() {
	_, _ = store.DeleteOlderThan(context.Background(), time.Now().Add(time.Hour))
}

func TestMain(m *testing.M) {
	upEnvironment()
	code := m.Run()
	downEnvironment()
	os.Exit(code)
}
