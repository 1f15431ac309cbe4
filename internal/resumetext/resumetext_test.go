package resumetext

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObjects struct {
	bucket, key string
	body        string
	err         error
}

func (f *fakeObjects) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.bucket = aws.ToString(in.Bucket)
	f.key = aws.ToString(in.Key)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(f.body))}, nil
}

func TestExtractByExtension(t *testing.T) {
	t.Parallel()

	text, err := Extract("cv.TXT", []byte("Summary\nGo developer"))
	require.NoError(t, err)
	assert.Equal(t, "Summary\nGo developer", text)

	text, err = Extract("cv.html", []byte("<h1>Experience</h1><p>Built APIs</p>"))
	require.NoError(t, err)
	assert.Contains(t, text, "Experience")
	assert.Contains(t, text, "Built APIs")
	assert.NotContains(t, text, "<p>")

	_, err = Extract("cv.odt", []byte("x"))
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = Extract("cv.pdf", []byte("not a pdf"))
	assert.Error(t, err)
}

func TestDocumentText(t *testing.T) {
	t.Parallel()

	xml := `<w:document><w:body><w:p><w:r><w:t>Skills</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Go</w:t><w:tab/><w:t>R&amp;D</w:t></w:r></w:p></w:body></w:document>`
	assert.Equal(t, "Skills\nGo\tR&D", documentText(xml))
}

func TestLoadLocalFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "resume.txt")
	require.NoError(t, os.WriteFile(path, []byte("Education: BSc"), 0o600))

	text, err := (&Loader{}).Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "Education: BSc", text)

	_, err = (&Loader{}).Load(context.Background(), filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestLoadFromObjectStorage(t *testing.T) {
	t.Parallel()

	objects := &fakeObjects{body: "Experience at Acme"}
	l := &Loader{s3: objects}

	text, err := l.Load(context.Background(), "s3://resumes/2026/dana.txt")
	require.NoError(t, err)
	assert.Equal(t, "Experience at Acme", text)
	assert.Equal(t, "resumes", objects.bucket)
	assert.Equal(t, "2026/dana.txt", objects.key)

	objects.err = errors.New("access denied")
	_, err = l.Load(context.Background(), "s3://resumes/dana.txt")
	assert.ErrorContains(t, err, "access denied")

	_, err = l.Load(context.Background(), "s3://resumes")
	assert.ErrorContains(t, err, "expected s3://bucket/key")

	_, err = (&Loader{}).Load(context.Background(), "s3://resumes/dana.txt")
	assert.ErrorContains(t, err, "not configured")
}
