package views

import (
	"strconv"

	"invoice-dashboard/pkg/invoicestatus"
)

// pageScript is the only place a failed row mutation is reported. HTMX does
// not swap 4xx/5xx responses, so every failed edit or delete reaches exactly
// one of these listeners and alerts once. A failed status edit then reloads
// the selector from data-close-url, which closes the menu at the stored status.
var pageScript = `<script>
(function () {
  var messages = {edit: ` + strconv.Quote(invoicestatus.FailureMessage) + `, delete: ` + strconv.Quote(DeleteFailureMessage) + `};
  function invoiceMutationFailed(evt) {
    var cfg = evt.detail && evt.detail.requestConfig;
    if (!cfg || String(cfg.verb).toLowerCase() !== "post") {
      return;
    }
    var action = /\/(edit|delete)$/.exec(cfg.path || "");
    if (!action) {
      return;
    }
    window.alert(messages[action[1]]);
    var target = evt.detail.target;
    var closeURL = target && target.getAttribute("data-close-url");
    if (action[1] === "edit" && closeURL) {
      htmx.ajax("GET", closeURL, {source: target, target: target, swap: "outerHTML"});
    }
  }
  document.addEventListener("htmx:responseError", invoiceMutationFailed);
  document.addEventListener("htmx:sendError", invoiceMutationFailed);
})();
</script>`
