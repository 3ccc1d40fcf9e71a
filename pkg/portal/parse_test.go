package portal

import (
	"reflect"
	"testing"
)

const resultHTML = `
<html><body>
  <div id="results">
    <a href="/Portal/DocView.aspx?id=27355&repo=r-5c10bb82">Minutes 2024-01-08</a>
    <a href="/Portal/DocView.aspx?id=12344&repo=r-5c10bb82">Minutes 2024-01-22</a>
    <a href="/Portal/DocView.aspx?id=27355&repo=r-5c10bb82">Minutes 2024-01-08 (dup)</a>
    <a href="/Portal/Other.aspx">unrelated</a>
    <a>no href</a>
  </div>
</body></html>`

func TestCollectIDs(t *testing.T) {
	ids, err := CollectIDs(resultHTML, `a[href*='/Portal/DocView.aspx?id=']`)
	if err != nil {
		t.Fatalf("CollectIDs() error = %v", err)
	}

	// Duplicates survive here; the catalog is responsible for dedup.
	want := []string{"27355", "12344", "27355"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("CollectIDs() = %v, want %v", ids, want)
	}
}

func TestCollectIDs_NoMatches(t *testing.T) {
	ids, err := CollectIDs("<html><body><p>empty</p></body></html>", "a[href*='DocView']")
	if err != nil {
		t.Fatalf("CollectIDs() error = %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("CollectIDs() = %v, want none", ids)
	}
}

func TestDropdownOptions(t *testing.T) {
	selectHTML := `<select id="MeetingMinutesSearch_Input0">
      <option value="">Select...</option>
      <option value="cc">City Council</option>
      <option value="fc">Finance Committee</option>
      <option value="">   </option>
      <option>Plan Commission</option>
    </select>`

	labels, values, err := DropdownOptions(selectHTML)
	if err != nil {
		t.Fatalf("DropdownOptions() error = %v", err)
	}

	wantLabels := []string{"City Council", "Finance Committee", "Plan Commission"}
	if !reflect.DeepEqual(labels, wantLabels) {
		t.Errorf("labels = %v, want %v", labels, wantLabels)
	}
	if values["City Council"] != "cc" {
		t.Errorf("values[City Council] = %q, want cc", values["City Council"])
	}
	// Options without a value attribute fall back to their label.
	if values["Plan Commission"] != "Plan Commission" {
		t.Errorf("values[Plan Commission] = %q, want label fallback", values["Plan Commission"])
	}
}
