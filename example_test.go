package heap_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	heap "github.com/jdziat/heap-go"
)

// This example demonstrates tracking a server-side event.
func ExampleClient_Track() {
	client, err := heap.New("1234567890", heap.WithStubbed(true))
	if err != nil {
		fmt.Println("Error creating client:", err)
		return
	}

	_, err = client.Track(context.Background(), "signup", "alice@example.com",
		heap.Properties{"plan": "pro", "seats": 5},
		heap.WithTimestamp(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)),
		heap.WithIdempotencyKey("signup-alice"),
	)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	fmt.Println("Event tracked")
	// Output: Event tracked
}

// This example shows attaching properties to a user.
func ExampleClient_AddUserProperties() {
	client, _ := heap.New("1234567890", heap.WithStubbed(true))

	_, err := client.AddUserProperties(context.Background(), 42, map[string]any{
		"company": "Acme",
	})
	fmt.Println(err)
	// Output: <nil>
}

// This example shows how validation failures are reported before anything is
// sent.
func ExampleValidationError() {
	client, _ := heap.New("1234567890", heap.WithStubbed(true))

	_, err := client.Track(context.Background(), "login", []string{"not", "an", "id"}, nil)

	var valErr *heap.ValidationError
	if errors.As(err, &valErr) {
		fmt.Println(valErr.Field)
		fmt.Println(errors.Is(err, heap.ErrUnsupportedType))
	}
	// Output:
	// identity
	// true
}

// This example shows the error returned before an app ID is configured.
func ExampleClient_SetAppID() {
	client, _ := heap.New("", heap.WithStubbed(true))

	_, err := client.Track(context.Background(), "login", "alice", nil)
	fmt.Println(err)

	client.SetAppID("1234567890")
	_, err = client.Track(context.Background(), "login", "alice", nil)
	fmt.Println(err)
	// Output:
	// heap: app_id not set
	// <nil>
}

// This example shows installing a process-wide client.
func ExampleSetDefault() {
	client, _ := heap.New("1234567890", heap.WithStubbed(true))
	heap.SetDefault(client)
	defer heap.SetDefault(nil)

	_, err := heap.Track(context.Background(), "page_view", "alice", nil)
	fmt.Println(err)
	// Output: <nil>
}
