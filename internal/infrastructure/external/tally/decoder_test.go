package tally

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Harshit2783/tally-integrated-pos-system/internal/domain/ledger"
)

const stockResponse = `<?xml version="1.0" encoding="UTF-8"?>
<ENVELOPE>
  <DSPACCNAME><DSPDISPNAME>Soap &amp; Co</DSPDISPNAME></DSPACCNAME>
  <DSPSTKINFO>
    <DSPSTKCL>
      <DSPCLQTY>5 pcs</DSPCLQTY>
      <DSPCLRATE>42.37/pcs</DSPCLRATE>
      <DSPCLAMTA>211.85</DSPCLAMTA>
    </DSPSTKCL>
    <DSPHSNVAL>3401</DSPHSNVAL>
    <DSPGSTVAL><DSPGSTPERCVAL>18</DSPGSTPERCVAL></DSPGSTVAL>
    <DSPMRPVAL>50</DSPMRPVAL>
    <DSPRATEAFTERGSTVAL>50</DSPRATEAFTERGSTVAL>
  </DSPSTKINFO>
  <DSPSTKINFO><DSPSTKCL><DSPCLQTY>2 pcs</DSPCLQTY></DSPSTKCL></DSPSTKINFO>
  <DSPACCNAME><DSPDISPNAME>Oil</DSPDISPNAME></DSPACCNAME>
  <DSPSTKINFO>
    <DSPSTKCL><DSPCLQTY>3 pcs</DSPCLQTY></DSPSTKCL>
    <DSPHSNVAL></DSPHSNVAL>
  </DSPSTKINFO>
  <DSPGODOWNNAME>Main Location</DSPGODOWNNAME>
  <DSPGODOWNNAME>Back Store</DSPGODOWNNAME>
</ENVELOPE>`

func TestDecodeTree_CollapsesAndGroups(t *testing.T) {
	root, err := DecodeTree([]byte(stockResponse))
	require.NoError(t, err)

	env, ok := ledger.Field(root, "ENVELOPE").(map[string]any)
	require.True(t, ok)

	names := ledger.AsList(env["DSPACCNAME"])
	require.Len(t, names, 2)
	assert.Equal(t, "Soap & Co", ledger.Text(ledger.Field(names[0], "DSPDISPNAME")))

	infos := ledger.AsList(env["DSPSTKINFO"])
	assert.Len(t, infos, 3)

	// empty element is present as an empty string
	hsn, ok := ledger.Field(infos[2], "DSPHSNVAL").(string)
	require.True(t, ok)
	assert.Equal(t, "", hsn)
}

func TestDecodeTree_ExtractsStockReport(t *testing.T) {
	root, err := DecodeTree([]byte(stockResponse))
	require.NoError(t, err)

	tree := ledger.ExtractStockReport(root)

	assert.Equal(t, []string{"Soap & Co", "Oil"}, tree.Names)
	assert.Equal(t, []string{"Main Location", "Back Store"}, tree.GodownLabels)
	require.Len(t, tree.InfoBlocks, 3)
	assert.True(t, tree.InfoBlocks[0].IsHeader)
	assert.False(t, tree.InfoBlocks[1].IsHeader)
	assert.True(t, tree.InfoBlocks[2].IsHeader)
}

func TestDecodeTree_SingleChildIsNotAList(t *testing.T) {
	root, err := DecodeTree([]byte(`<A><B>1</B><C x="y">2</C></A>`))
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"A": map[string]any{"B": "1", "C": "2"}}, root)
}

func TestDecodeTree_MixedContent(t *testing.T) {
	root, err := DecodeTree([]byte(`<A>text<B>1</B></A>`))
	require.NoError(t, err)

	assert.Equal(t, "text", ledger.Text(ledger.Field(root, "A")))
	assert.Equal(t, "1", ledger.Text(ledger.Field(root, "A", "B")))
}

func TestDecodeTree_StripsIllegalControlCharacters(t *testing.T) {
	root, err := DecodeTree([]byte("<A><B>Soap&#4;</B><C>Oil\x04</C></A>"))
	require.NoError(t, err)

	assert.Equal(t, "Soap", ledger.Text(ledger.Field(root, "A", "B")))
	assert.Equal(t, "Oil", ledger.Text(ledger.Field(root, "A", "C")))
}

func TestDecodeTree_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"whitespace", "   \n"},
		{"unclosed tag", "<ENVELOPE><DSPACCNAME>"},
		{"mismatched tag", "<A><B></A></B>"},
		{"text only", "not xml"},
		{"two roots", "<A/><B/>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, err := DecodeTree([]byte(tt.input))
			assert.Nil(t, root)
			require.Error(t, err)
			assert.True(t, ledger.IsParseError(err), "got %T: %v", err, err)
		})
	}
}
