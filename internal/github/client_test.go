package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// fakeRepo serves a minimal GitHub contents API for one repository.
func fakeRepo(t *testing.T, files map[string]string, dirs map[string][]string) *Client {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		const prefix = "/repos/zorooz/daily-python-progress/contents/"
		if len(r.URL.Path) < len(prefix) {
			http.NotFound(w, r)
			return
		}
		path := r.URL.Path[len(prefix):]

		if content, ok := files[path]; ok {
			json.NewEncoder(w).Encode(map[string]any{
				"name":     path,
				"path":     path,
				"type":     "file",
				"content":  base64.StdEncoding.EncodeToString([]byte(content)),
				"encoding": "base64",
			})
			return
		}

		entries, ok := dirs[path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		items := []map[string]any{}
		for _, name := range entries {
			full := name
			if path != "" {
				full = path + "/" + name
			}
			typ := "dir"
			if _, isFile := files[full]; isFile {
				typ = "file"
			}
			items = append(items, map[string]any{"name": name, "path": full, "type": typ})
		}
		json.NewEncoder(w).Encode(items)
	}))
	t.Cleanup(srv.Close)

	c := NewClient("zorooz", "daily-python-progress", "", "")
	c.BaseURL = srv.URL
	c.HTTPClient = srv.Client()
	return c
}

func TestListDays(t *testing.T) {
	c := fakeRepo(t,
		map[string]string{},
		map[string][]string{
			"": {"Day_12", "day 3", "README.md", "Day1-basics", "notes"},
		},
	)

	days, err := c.ListDays(context.Background())
	if err != nil {
		t.Fatalf("ListDays: %v", err)
	}

	want := []DayFolder{
		{DayNumber: 1, FolderName: "Day1-basics"},
		{DayNumber: 3, FolderName: "day 3"},
		{DayNumber: 12, FolderName: "Day_12"},
	}
	if len(days) != len(want) {
		t.Fatalf("got %d days, want %d: %v", len(days), len(want), days)
	}
	for i := range want {
		if days[i] != want[i] {
			t.Errorf("days[%d] = %+v, want %+v", i, days[i], want[i])
		}
	}
}

func TestListDayFiles(t *testing.T) {
	c := fakeRepo(t,
		map[string]string{
			"Day_1/hello.py": `print("hi")`,
			"Day_1/loops.py": "for i in range(3): pass",
		},
		map[string][]string{
			"":      {"Day_1", "Day_12"},
			"Day_1": {"hello.py", "loops.py", "notes.txt"},
		},
	)

	files, err := c.ListDayFiles(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListDayFiles: %v", err)
	}

	if len(files) != 2 {
		t.Fatalf("got %d files, want 2: %v", len(files), files)
	}
	if files[0].Filename != "hello.py" || files[0].Path != "Day_1/hello.py" {
		t.Errorf("files[0] = %+v", files[0])
	}
}

func TestListDayFilesWordBoundary(t *testing.T) {
	// Day 1 must not resolve to Day_12.
	c := fakeRepo(t,
		map[string]string{},
		map[string][]string{
			"": {"Day_12"},
		},
	)

	_, err := c.ListDayFiles(context.Background(), 1)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestGetFile(t *testing.T) {
	c := fakeRepo(t,
		map[string]string{
			"Day_2/calc.py": "x = 1 + 1\nprint(x)\n",
		},
		map[string][]string{
			"": {"Day_2"},
		},
	)

	fc, err := c.GetFile(context.Background(), 2, "calc.py")
	if err != nil {
		t.Fatalf("GetFile: %v", err)
	}

	if fc.Content != "x = 1 + 1\nprint(x)\n" {
		t.Errorf("Content = %q", fc.Content)
	}
	if fc.Path != "Day_2/calc.py" {
		t.Errorf("Path = %q", fc.Path)
	}
}

func TestGetFileMissing(t *testing.T) {
	c := fakeRepo(t,
		map[string]string{},
		map[string][]string{
			"": {"Day_2"},
		},
	)

	_, err := c.GetFile(context.Background(), 2, "nope.py")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	t.Cleanup(srv.Close)

	c := NewClient("zorooz", "daily-python-progress", "", "")
	c.BaseURL = srv.URL
	c.HTTPClient = srv.Client()

	_, err := c.ListDays(context.Background())
	var ue *UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("err = %v, want *UpstreamError", err)
	}
	if ue.Status != http.StatusForbidden {
		t.Errorf("Status = %d, want 403", ue.Status)
	}
}
