// Package fakeapi is an in-memory implementation of the petadopt REST
// backend, served with chi. It signs real HS256 tokens, hashes passwords
// with bcrypt and enforces the same roles as the production backend, so
// gateway, store and CLI tests can run against it end to end.
//
//	srv := fakeapi.New()
//	admin := srv.AddUser("Admin", "admin@example.com", "secret1", "5550000000", models.RoleAdmin)
//	ts := httptest.NewServer(srv.Handler())
//	defer ts.Close()
//	baseURL := ts.URL + "/api"
package fakeapi
