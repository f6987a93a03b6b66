package http

import (
	"net/http"
)

// frontendHTML is the embedded HTML for the conversion status page.
// Pure CSS, no build step; reads the recent-results API.
const frontendHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Tessera - Conversion Status</title>
    <style>
        :root {
            --primary: #2563eb;
            --success: #16a34a;
            --error: #dc2626;
            --warning: #d97706;
            --bg: #f8fafc;
            --card: #ffffff;
            --text: #1e293b;
            --text-muted: #64748b;
            --border: #e2e8f0;
            --radius: 8px;
            --shadow: 0 1px 3px rgba(0,0,0,0.1);
        }

        * { box-sizing: border-box; margin: 0; padding: 0; }

        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            background: var(--bg);
            color: var(--text);
            padding: 1.5rem;
        }

        h1 { font-size: 1.25rem; margin-bottom: 0.25rem; }

        .subtitle { color: var(--text-muted); font-size: 0.875rem; margin-bottom: 1.5rem; }

        .card {
            background: var(--card);
            border: 1px solid var(--border);
            border-radius: var(--radius);
            box-shadow: var(--shadow);
            padding: 1rem;
            max-width: 64rem;
        }

        table { width: 100%; border-collapse: collapse; font-size: 0.875rem; }

        th, td {
            text-align: left;
            padding: 0.5rem 0.75rem;
            border-bottom: 1px solid var(--border);
            white-space: nowrap;
        }

        th { color: var(--text-muted); font-weight: 600; }

        td.object { white-space: normal; word-break: break-all; }

        .badge {
            display: inline-block;
            padding: 0.125rem 0.5rem;
            border-radius: 999px;
            font-size: 0.75rem;
            color: #fff;
            background: var(--text-muted);
        }

        .badge.done { background: var(--success); }
        .badge.skipped { background: var(--text-muted); }
        .badge.no_source_found { background: var(--warning); }
        .badge.archive_failed,
        .badge.conversion_failed,
        .badge.upload_failed { background: var(--error); }

        .empty { color: var(--text-muted); padding: 1rem 0; text-align: center; }
    </style>
</head>
<body>
    <h1>Tessera</h1>
    <p class="subtitle">Recent archive conversions</p>
    <div class="card">
        <table>
            <thead>
                <tr>
                    <th>Archive</th>
                    <th>Outcome</th>
                    <th>Source</th>
                    <th>Output</th>
                    <th>Completed</th>
                </tr>
            </thead>
            <tbody id="results">
                <tr><td colspan="5" class="empty">Loading…</td></tr>
            </tbody>
        </table>
    </div>
    <script>
        async function refresh() {
            try {
                const res = await fetch('/api/v1/conversions');
                const data = await res.json();
                const body = document.getElementById('results');
                const rows = (data.conversions || []).map(c =>
                    '<tr>' +
                    '<td class="object">' + esc(c.object) + '</td>' +
                    '<td><span class="badge ' + esc(c.outcome) + '">' + esc(c.outcome) + '</span></td>' +
                    '<td>' + esc(c.source_kind || '-') + '</td>' +
                    '<td>' + esc(c.output || '-') + '</td>' +
                    '<td>' + new Date(c.completed_at).toLocaleString() + '</td>' +
                    '</tr>');
                body.innerHTML = rows.length
                    ? rows.join('')
                    : '<tr><td colspan="5" class="empty">No conversions yet</td></tr>';
            } catch (e) {
                console.error(e);
            }
        }

        function esc(s) {
            const d = document.createElement('div');
            d.textContent = s == null ? '' : String(s);
            return d.innerHTML;
        }

        refresh();
        setInterval(refresh, 10000);
    </script>
</body>
</html>`

// handleFrontend serves the status page.
func (s *Server) handleFrontend(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(frontendHTML))
}
