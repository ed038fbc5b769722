// Package services implements the YouTube Music upstream boundary and the
// facade the HTTP API and CLI are built on.
//
// # Catalog Interface
//
// All upstream traffic goes through the [Catalog] interface. The concrete
// implementation is [InnertubeClient], which talks to the InnerTube API at
// music.youtube.com with the WEB_REMIX client context. Tests substitute a
// double.
//
// # MusicService Facade
//
// [MusicService] ties the pieces together per request:
//
//   - resolves the effective session configuration (request override over
//     static config over environment over defaults)
//   - generates missing visitor data and proof-of-origin tokens through
//     [potoken.Generator], cached per cookie/server pair
//   - caches one tuned *http.Client per full session fingerprint; evicted
//     clients have their idle connections closed
//   - races lyric lookups against a fixed deadline so a slow lyrics service
//     never stalls a song lookup
//
// # Error Handling
//
// Operations classify failures with sentinels from the shared package:
//   - [shared.ErrInvalidArgument] : input rejected before any network call
//   - [shared.ErrMissingCredentials] : library access without session data
//   - [shared.ErrNotFoundOrPrivate] : upstream answered with a page instead
//     of data, or reported the resource unplayable
//   - [shared.ErrUpstream] : any other upstream failure
package services
