// Package resilience groups the fault tolerance helpers used by every
// outbound call: the news backend, external feeds, article pages, the ad
// event collector and the ad event store.
//
// Calls are wrapped retry-outside, breaker-inside, so an open circuit ends
// the retry loop at once:
//
//	cb := circuitbreaker.New(circuitbreaker.BackendConfig())
//	body, err := retry.Do(ctx, retry.BackendConfig(), func() ([]byte, error) {
//	    return circuitbreaker.Run(cb, func() ([]byte, error) {
//	        return fetch(ctx)
//	    })
//	})
package resilience
