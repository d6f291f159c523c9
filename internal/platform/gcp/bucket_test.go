package gcp

import (
	"testing"
)

func TestResolveObjectStoragePublicBaseURL(t *testing.T) {
	cases := []struct {
		name       string
		cfg        ObjectStorageConfig
		raw        string
		wantURL    string
		wantSource string
		wantErr    bool
	}{
		{
			name:       "gcs default",
			cfg:        ObjectStorageConfig{Mode: ObjectStorageModeGCS},
			wantSource: "gcs_default",
		},
		{
			name:       "emulator fallback",
			cfg:        ObjectStorageConfig{Mode: ObjectStorageModeGCSEmulator, EmulatorHost: "http://fake-gcs:4443"},
			wantURL:    "http://fake-gcs:4443",
			wantSource: "storage_emulator_host",
		},
		{
			name:       "explicit override",
			cfg:        ObjectStorageConfig{Mode: ObjectStorageModeGCSEmulator, EmulatorHost: "http://fake-gcs:4443"},
			raw:        "http://localhost:4443/",
			wantURL:    "http://localhost:4443",
			wantSource: "object_storage_public_base_url",
		},
		{
			name:    "invalid override",
			cfg:     ObjectStorageConfig{Mode: ObjectStorageModeGCS},
			raw:     "localhost:4443",
			wantErr: true,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gotURL, gotSource, err := resolveObjectStoragePublicBaseURL(tc.cfg, tc.raw)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("resolveObjectStoragePublicBaseURL: expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("resolveObjectStoragePublicBaseURL: %v", err)
			}
			if gotURL != tc.wantURL {
				t.Fatalf("baseURL: want=%q got=%q", tc.wantURL, gotURL)
			}
			if gotSource != tc.wantSource {
				t.Fatalf("source: want=%q got=%q", tc.wantSource, gotSource)
			}
		})
	}
}

func TestGetPublicURL(t *testing.T) {
	cases := []struct {
		name string
		bs   *bucketService
		key  string
		want string
	}{
		{
			name: "gcs default",
			bs:   &bucketService{bucket: "character-avatars"},
			key:  "avatar-aria-1700000000000.jpg",
			want: "https://storage.googleapis.com/character-avatars/avatar-aria-1700000000000.jpg",
		},
		{
			name: "cdn domain",
			bs:   &bucketService{bucket: "character-avatars", cdnDomain: "cdn.example.com"},
			key:  "/avatar-aria-1.jpg",
			want: "https://cdn.example.com/avatar-aria-1.jpg",
		},
		{
			name: "public base",
			bs:   &bucketService{bucket: "character-avatars", publicBaseURL: "http://localhost:4443"},
			key:  "avatar-aria-1.jpg",
			want: "http://localhost:4443/character-avatars/avatar-aria-1.jpg",
		},
		{
			name: "emulator media endpoint",
			bs: &bucketService{
				bucket:       "character-avatars",
				storageMode:  ObjectStorageModeGCSEmulator,
				emulatorHost: "http://fake-gcs:4443",
			},
			key:  "stories/abc/avatar-aria-1.jpg",
			want: "http://fake-gcs:4443/storage/v1/b/character-avatars/o/stories%2Fabc%2Favatar-aria-1.jpg?alt=media",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.bs.GetPublicURL(tc.key); got != tc.want {
				t.Fatalf("GetPublicURL: want=%q got=%q", tc.want, got)
			}
		})
	}
}

func TestContentTypeForKey(t *testing.T) {
	if got := contentTypeForKey("avatar-a-1.JPG"); got != "image/jpeg" {
		t.Fatalf("contentTypeForKey: want=%q got=%q", "image/jpeg", got)
	}
	if got := contentTypeForKey("notes.txt"); got != "" {
		t.Fatalf("contentTypeForKey: want empty got=%q", got)
	}
}
