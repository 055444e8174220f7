// Package listmonk is a Go client for the Listmonk email-platform REST
// API. It covers health checks, subscribers, mailing lists, campaigns,
// templates, and transactional email with attachments.
//
// Create a client with the instance base URL and basic-auth credentials,
// then call one method per API operation:
//
//	client, err := listmonk.New("https://listmonk.example.com", "admin", "secret")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	ctx := context.Background()
//	sub, err := client.SubscriberByEmail(ctx, "someone@example.com")
//	if errors.Is(err, listmonk.ErrSubscriberNotFound) {
//		sub, err = client.CreateSubscriber(ctx, "someone@example.com", "Someone", []int{1})
//	}
//
// All entities are server-authoritative: the client never assigns ids,
// it only echoes server-issued identifiers back on update and delete
// calls. Errors map HTTP statuses to typed values; check them with
// errors.Is against the package sentinels.
package listmonk
