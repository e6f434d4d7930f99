package handlers_integrated_test_suite

import (
	"fmt"
	"os"
	"testing"
)

func TestMain(m *testing.M) {
	ok, err := setup()
	if err != nil {
		fmt.Println("integration setup failed:", err)
		teardown()
		os.Exit(1)
	}
	if !ok {
		fmt.Println("DATABASE_URL not set, skipping integration tests")
		os.Exit(0)
	}

	code := m.Run()
	teardown()
	os.Exit(code)
}
